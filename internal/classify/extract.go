// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"regexp"
	"strconv"

	"github.com/jadmax0w0/conference-paper-scrapper/pkg/types"
)

// verdictPattern matches a "Result: N" statement in the judge's free-text
// reply. The judge is told to answer with a bare number, but replies in
// the wild wrap it in Markdown emphasis, use a full-width colon, or drop
// the colon entirely, so each of those is tolerated:
//
//	result       literal token, case-insensitive
//	[:：]?       optional ASCII or full-width colon
//	(?:\*\*|'|`)* optional emphasis markup around the value
//	(-?1|0)      the value itself; only -1, 0, 1 can match
//	\b           word boundary so "10" and "01" never match
var verdictPattern = regexp.MustCompile(`(?i)result\s*[:：]?\s*(?:\*\*|'|` + "`" + `)*(-?1|0)(?:\*\*|'|` + "`" + `)*\b`)

// ExtractVerdict parses the judge's reply into a verdict. It returns nil
// when the reply is empty, contains no parseable result statement, or
// the value is outside the three-point scale. When the reply states a
// result more than once the last statement wins, since models sometimes
// restate their conclusion after further reasoning.
func ExtractVerdict(text string) *types.Verdict {
	if text == "" {
		return nil
	}

	matches := verdictPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	val, err := strconv.Atoi(matches[len(matches)-1][1])
	if err != nil {
		return nil
	}

	v := types.Verdict(val)
	if !v.Valid() {
		return nil
	}
	return &v
}
