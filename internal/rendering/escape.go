package rendering

import "strings"

// latexReplacer maps every character LaTeX treats specially to its literal form.
// Replacement happens in one pass, so inserted backslashes are never re-escaped.
var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`_`, `\_`,
	`^`, `\textasciicircum{}`,
	`~`, `\textasciitilde{}`,
	`<`, `\textless{}`,
	`>`, `\textgreater{}`,
	`|`, `\textbar{}`,
)

// EscapeLaTeX makes profile text safe to place in a LaTeX document body.
func EscapeLaTeX(text string) string {
	return latexReplacer.Replace(text)
}
