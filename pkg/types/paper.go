// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PaperRecord holds the scraped metadata for a single conference paper.
// Listing pages yield title and link; the detail fetch fills in authors
// and abstract.
type PaperRecord struct {
	// Title is the paper title as shown on the listing page.
	Title string `json:"title" yaml:"title"`

	// Link is the absolute URL of the paper's detail page.
	Link string `json:"url,omitempty" yaml:"url,omitempty"`

	// Authors is the author line from the detail page, comma-separated.
	Authors string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Abstract is the paper abstract from the detail page.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
}
