// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"strings"

	"github.com/jadmax0w0/conference-paper-scrapper/pkg/types"
)

// systemPrompt defines the three-point relevance scale and the two-line
// output format the verdict extractor expects.
const systemPrompt = `You are an expert academic researcher and library scientist. Your task is to classify whether a given research paper belongs to a specific Target Topic/Domain based on its Title, Venue, Year, and Abstract.

### Classification Criteria
Please evaluate the relevance using the following strict scale:

* **1 (Relevant):** The paper explicitly addresses, contributes to, or heavily relies on the Target Topic. The abstract discusses core concepts, methods, or applications directly related to the topic.
* **0 (Unsure/insufficient Info):** The abstract is ambiguous, the connection to the topic is extremely tangential, or the paper sits on the boundary. The provided information is not enough to make a definitive "Yes" or "No".
* **-1 (Irrelevant):** The paper belongs to a completely different field, or uses the keywords in a context unrelated to the Target Topic (e.g., "Apple" as a fruit vs. "Apple" as a tech company).

### Steps for Analysis
1.  **Analyze the Target Topic:** Understand the semantic meaning of the provided keywords or description.
2.  **Analyze the Paper:** Read the Title and Abstract. Check the Venue (Conference/Journal) for context (e.g., a CVPR paper is likely about Computer Vision).
3.  **Determine Relevance:** Look for semantic alignment, not just keyword matching.
4.  **Formulate Output:** Generate a brief analysis and the final numeric result.

### Output Format
You must output the result strictly in the following format (do not use Markdown code blocks, just plain text):

Analysis: [Your brief reasoning here, explaining why it fits or doesn't fit within 1-3 sentences.]
Result: [Output only one number: -1, 0, or 1]
`

// userPromptTemplate carries one placeholder per input field. Inputs are
// trusted operator and scraper text; no escaping is applied.
const userPromptTemplate = `### Target Topic/Domain Description
{{topic_description}}

### Paper Information
**Title:** {{paper_title}}
**Venue & Year:** {{paper_venue}}, {{paper_year}}
**Abstract:**
{{paper_abstract}}

---
Based on the instructions, please provide the Analysis and Result.
`

// BuildPrompt produces the system and user messages for one paper.
// Each placeholder is substituted exactly once, in template order:
// topic description, title, venue, year, abstract. An input that itself
// contains a later placeholder will therefore be expanded by a
// subsequent substitution.
func BuildPrompt(topic types.TopicQuery, paper types.PaperRecord) (system, user string) {
	user = userPromptTemplate
	user = strings.Replace(user, "{{topic_description}}", topic.Description, 1)
	user = strings.Replace(user, "{{paper_title}}", paper.Title, 1)
	user = strings.Replace(user, "{{paper_venue}}", topic.Venue, 1)
	user = strings.Replace(user, "{{paper_year}}", topic.Year, 1)
	user = strings.Replace(user, "{{paper_abstract}}", paper.Abstract, 1)
	return systemPrompt, user
}
