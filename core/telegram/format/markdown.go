// Package format escapes user-provided text for Telegram markdown messages.
package format

import "strings"

var (
	mdV1Escaper = strings.NewReplacer(
		"_", `\_`,
		"*", `\*`,
		"`", "\\`",
		"[", `\[`,
	)
	mdV2Escaper = func() *strings.Replacer {
		const specials = "_*[]()~`>#+-=|{}.!"
		pairs := make([]string, 0, len(specials)*2)
		for _, r := range specials {
			pairs = append(pairs, string(r), `\`+string(r))
		}
		return strings.NewReplacer(pairs...)
	}()
)

// EscapeMD escapes text for legacy Markdown (tele.ModeMarkdown) so
// user-typed underscores and asterisks do not break message entities.
func EscapeMD(text string) string {
	return mdV1Escaper.Replace(text)
}

// EscapeMDV2 escapes text for MarkdownV2 (tele.ModeMarkdownV2).
func EscapeMDV2(text string) string {
	return mdV2Escaper.Replace(text)
}
