package xml

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	trailingBreak = regexp.MustCompile(`\n\s*$`)
	leadingBreak  = regexp.MustCompile(`\n\s*`)
)

// stripLineBreaks removes the trailing line break with the whitespace that
// follows it, then the first remaining line break with the whitespace that
// follows it. Whitespace before the first line break is kept.
func stripLineBreaks(s string) string {
	s = trailingBreak.ReplaceAllLiteralString(s, "")
	if loc := leadingBreak.FindStringIndex(s); loc != nil {
		s = s[:loc[0]] + s[loc[1]:]
	}
	return s
}

// normalizeSpace drops line breaks and collapses whitespace runs to a
// single space, like XSLT normalize-space, except that one boundary space
// survives on each side where the input had whitespace there.
func normalizeSpace(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	if s == "" {
		return s
	}

	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)

	out := collapseSpace(s)
	if out == "" {
		return out
	}
	if isSpace(first) {
		out = " " + out
	}
	if isSpace(last) {
		out += " "
	}
	return out
}

// collapseSpace trims s and replaces every interior whitespace run with
// one space.
func collapseSpace(s string) string {
	return strings.Join(strings.FieldsFunc(s, isSpace), " ")
}

// isSpace matches the ASCII whitespace class \s. Non-breaking spaces are
// content.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
