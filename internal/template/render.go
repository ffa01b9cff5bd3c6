package template

import "regexp"

// placeholderRe matches {{fieldName}} tokens. Surrounding whitespace inside
// the braces is tolerated so operator-edited bodies don't silently break.
var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// Render substitutes {{field}} placeholders in body with values from data.
// A placeholder with no matching field renders as an empty string — the raw
// token never leaks into recipient-facing text. Pure function, no I/O;
// rendering the same (body, data) pair twice yields the same string.
func Render(body string, data map[string]string) string {
	if body == "" {
		return ""
	}
	return placeholderRe.ReplaceAllStringFunc(body, func(tok string) string {
		field := placeholderRe.FindStringSubmatch(tok)[1]
		return data[field]
	})
}
