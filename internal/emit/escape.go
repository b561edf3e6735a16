package emit

import "strings"

var cEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// cString escapes s for a C++ string literal body.
func cString(s string) string {
	return cEscaper.Replace(s)
}

var lineEscaper = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// lineComment keeps s on one line inside a // comment. A trailing
// backslash would continue the comment onto the next source line, so it is
// written as \x5c.
func lineComment(s string) string {
	s = lineEscaper.Replace(s)
	trimmed := strings.TrimRight(s, " \t")
	if strings.HasSuffix(trimmed, `\`) {
		return trimmed[:len(trimmed)-1] + `\x5c`
	}
	return s
}

// blockComment keeps s from closing a /* */ comment.
func blockComment(s string) string {
	return strings.ReplaceAll(s, "*/", "* /")
}
