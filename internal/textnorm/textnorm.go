// Package textnorm cleans the reasoning channel of the research stream:
// stripping internal control tags, lifting embedded <output> spans out of the
// surrounding narration, and repairing word boundaries damaged by naive
// chunk concatenation.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Control tags bound the model's thinking spans on the wire. They are
// structural markers, never content.
var controlTags = []string{"<think>", "</think>"}

var outputSpanRE = regexp.MustCompile(`(?is)<output>(.*?)</output>`)

// StripTags removes the control tag markers from s, case-insensitively.
func StripTags(s string) string {
	for _, tag := range controlTags {
		for {
			i := indexFold(s, tag)
			if i < 0 {
				break
			}
			s = s[:i] + s[i+len(tag):]
		}
	}
	return s
}

// ExtractOutputs finds every <output>...</output> span in s (case- and
// newline-insensitive), returning the trimmed non-empty inner texts in order
// and the remainder with the matched spans removed. De-duplication against
// previously surfaced outputs is the caller's concern.
func ExtractOutputs(s string) (outputs []string, remainder string) {
	matches := outputSpanRE.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return nil, s
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		last = m[1]
		if inner := strings.TrimSpace(s[m[2]:m[3]]); inner != "" {
			outputs = append(outputs, inner)
		}
	}
	b.WriteString(s[last:])
	return outputs, b.String()
}

// Normalize applies tag stripping and output extraction and trims the
// remaining narration fragment.
func Normalize(s string) (outputs []string, fragment string) {
	outputs, fragment = ExtractOutputs(StripTags(s))
	return outputs, strings.TrimSpace(fragment)
}

// Join concatenates a new reasoning fragment onto already-accumulated text.
// When the boundary would glue two alphanumeric runes together it inserts a
// single space first, then runs the repair pass over the combined text.
// Chunk boundaries frequently split a word or run two words together.
func Join(prev, next string) string {
	last, _ := utf8.DecodeLastRuneInString(prev)
	first, _ := utf8.DecodeRuneInString(next)
	if isAlnum(last) && isAlnum(first) {
		return Repair(prev + " " + next)
	}
	return Repair(prev + next)
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

var camelRE = regexp.MustCompile(`([a-z])([A-Z])`)

// shortWords is the closed set of common words the glue repair knows about.
var shortWords = []string{"I", "will", "can", "should", "would", "may", "might"}

var gluedBeforeREs, gluedAfterREs = compileGlueREs()

func compileGlueREs() (before, after []*regexp.Regexp) {
	for _, w := range shortWords {
		before = append(before, regexp.MustCompile(`([A-Za-z])(`+w+`)\b`))
		after = append(after, regexp.MustCompile(`\b(`+w+`)([A-Z])`))
	}
	return before, after
}

// Repair is a best-effort pass that unsticks visibly glued words: a space is
// inserted at lowercase-to-uppercase transitions, and around the shortWords
// set when a word is glued to adjacent letters. It is a cosmetic heuristic
// and can over-correct legitimate compounds.
func Repair(s string) string {
	s = camelRE.ReplaceAllString(s, "$1 $2")
	for _, re := range gluedBeforeREs {
		s = re.ReplaceAllString(s, "$1 $2")
	}
	for _, re := range gluedAfterREs {
		s = re.ReplaceAllString(s, "$1 $2")
	}
	return s
}

// indexFold is a case-insensitive strings.Index for ASCII needles.
func indexFold(s, needle string) int {
	n := len(needle)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], needle) {
			return i
		}
	}
	return -1
}
