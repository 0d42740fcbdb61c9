package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScrapeConfig holds settings for the scrape stage.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline"`

	// FetchDelay is the base delay between consecutive detail-page
	// fetches (default 1s). A random jitter of up to FetchJitter is
	// added to each wait.
	FetchDelay time.Duration `json:"fetch_delay" yaml:"fetch_delay"`

	// FetchJitter is the maximum random addition to FetchDelay (default 1s).
	FetchJitter time.Duration `json:"fetch_jitter" yaml:"fetch_jitter"`

	// MaxRetries is the number of retry attempts on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// JudgeProvider identifies the language-model provider used as the judge.
type JudgeProvider string

const (
	ProviderDeepSeek  JudgeProvider = "deepseek"
	ProviderOpenAI    JudgeProvider = "openai"
	ProviderAnthropic JudgeProvider = "anthropic"
)

// JudgeConfig holds settings for the classification judge.
type JudgeConfig struct {
	// Provider selects the judge backend: deepseek, openai, or anthropic.
	Provider JudgeProvider `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "deepseek-chat"). Empty uses
	// the provider default.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// APIKey is the authentication key for the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Timeout is the per-call request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// StoreConfig holds settings for the run-archive store.
type StoreConfig struct {
	// ArchiveDir is the base directory for the archive (contains index/).
	ArchiveDir string `json:"archive_dir" yaml:"archive_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
