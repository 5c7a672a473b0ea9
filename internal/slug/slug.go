// Package slug derives URL fragment identifiers from Markdown heading lines.
//
// A heading goes through an ordered list of string stages (Pipeline) that
// produce a base slug; a Table then disambiguates repeated bases within one
// generation run by appending "-1", "-2", ... to later occurrences.
//
// The tilde is reserved as the internal whitespace placeholder: it is removed
// from the input first, used to join words while transliterating, and turned
// into a hyphen at the end.
package slug

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// placeholder stands in for whitespace until the final stage.
const placeholder = "~"

// fullStop is the ideographic full stop (U+3002), dropped before slugging.
const fullStop = "。"

// codePunctuation is stripped from the inside of inline code spans.
const codePunctuation = "!\"#$%&'()*+,./:;<=>?@[\\]^`{|}~"

// codeSpan matches ``double`` or `single` backtick spans and the single
// whitespace character that may follow them.
var codeSpan = regexp.MustCompile("``(.+?)``(\\s?)|`(.+?)`(\\s?)")

// Stage is one string transform of the slug pipeline.
type Stage func(string) string

// Pipeline lists the stages Base applies, in order.
var Pipeline = []Stage{
	StripMarker,
	Sanitize,
	ReduceCodeSpans,
	JoinWhitespace,
	Transliterate,
}

// Base returns the candidate slug for a heading, before collision handling.
func Base(heading string) string {
	s := heading
	for _, stage := range Pipeline {
		s = stage(s)
	}
	return s
}

// Slugify returns the anchor for heading, disambiguated against t.
// A nil table disables disambiguation.
func Slugify(heading string, t *Table) string {
	base := Base(heading)
	if t == nil {
		return base
	}
	return t.Resolve(base)
}

// StripMarker removes a leading ATX marker ("## ") from a raw heading line.
func StripMarker(s string) string {
	if !strings.HasPrefix(s, "#") {
		return s
	}
	s = strings.TrimLeft(s, "#")
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

// Sanitize drops ideographic full stops and tildes.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, fullStop, "")
	return strings.ReplaceAll(s, placeholder, "")
}

// ReduceCodeSpans rewrites every inline code span with reduceCode.
func ReduceCodeSpans(s string) string {
	matches := codeSpan.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])

		// Groups 1-2 belong to the double-backtick branch, 3-4 to the single one.
		capture, trailing := submatch(s, m, 1), submatch(s, m, 2)
		if m[2] < 0 {
			capture, trailing = submatch(s, m, 3), submatch(s, m, 4)
		}
		b.WriteString(reduceCode(capture, trailing != ""))
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

func submatch(s string, m []int, group int) string {
	start, end := m[2*group], m[2*group+1]
	if start < 0 {
		return ""
	}
	return s[start:end]
}

// reduceCode normalizes the text of one code span.
func reduceCode(capture string, endedInSpace bool) string {
	sanitized := strings.Map(func(r rune) rune {
		if strings.ContainsRune(codePunctuation, r) {
			return -1
		}
		return r
	}, capture)
	sanitized = trimOneSpace(sanitized)
	sanitized = strings.ReplaceAll(sanitized, "`", placeholder)

	out := sanitized
	if strings.TrimFunc(capture, unicode.IsSpace) == "" {
		out = placeholder
	}
	if endedInSpace && !strings.HasSuffix(out, placeholder) {
		out += placeholder
	}
	return out
}

// trimOneSpace removes at most one whitespace rune from each end.
func trimOneSpace(s string) string {
	if r, size := utf8.DecodeRuneInString(s); size > 0 && unicode.IsSpace(r) {
		s = s[size:]
	}
	if r, size := utf8.DecodeLastRuneInString(s); size > 0 && unicode.IsSpace(r) {
		s = s[:len(s)-size]
	}
	return s
}

// JoinWhitespace replaces every run of whitespace with the placeholder.
func JoinWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteString(placeholder)
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// isAccent reports combining marks that folding drops. Kana voicing marks
// are kept so that NFC can recompose them.
func isAccent(r rune) bool {
	return unicode.Is(unicode.Mn, r) && r != '\u3099' && r != '\u309A'
}

// Transliterate folds diacritics, lower-cases, keeps letters, digits and
// the characters "-", "_" and the placeholder, trims placeholders at both
// ends and finally turns placeholders into hyphens.
func Transliterate(s string) string {
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(isAccent)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}
	s = cases.Lower(language.Und).String(s)

	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), unicode.Is(unicode.Mc, r):
			return r
		case r == '-', r == '_', r == '~':
			return r
		}
		return -1
	}, s)

	s = strings.Trim(s, placeholder)
	return strings.ReplaceAll(s, placeholder, "-")
}
