package report

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// AlignEntries pads the text in front of the separator so that the separator
// starts in the same character column on every entry. The full separator span
// (words joined by one space) is used as the split point. Entries that do not
// contain it are returned untouched and do not widen the column.
func AlignEntries(entries []string, separator []string) []string {
	return alignEntries(entries, separator, utf8.RuneCountInString)
}

// AlignEntriesDisplay is AlignEntries measured in terminal cells, so wide
// runes count as two columns.
func AlignEntriesDisplay(entries []string, separator []string) []string {
	return alignEntries(entries, separator, runewidth.StringWidth)
}

func alignEntries(entries []string, separator []string, width func(string) int) []string {
	aligned := make([]string, len(entries))
	copy(aligned, entries)

	span := strings.Join(separator, " ")
	if span == "" {
		return aligned
	}

	type split struct {
		left, right string
		ok          bool
	}
	splits := make([]split, len(entries))
	longest := 0
	for i, entry := range entries {
		at := separatorIndex(entry, span)
		if at < 0 {
			continue
		}
		s := split{left: entry[:at], right: entry[at+len(span):], ok: true}
		splits[i] = s
		longest = max(longest, width(s.left))
	}

	for i, s := range splits {
		if !s.ok {
			continue
		}
		pad := strings.Repeat(" ", longest-width(s.left))
		aligned[i] = s.left + pad + span + s.right
	}
	return aligned
}

// separatorIndex finds the first occurrence of sep that is bounded by
// whitespace or the ends of s, falling back to the first raw occurrence.
func separatorIndex(s, sep string) int {
	first := -1
	for from := 0; from < len(s); {
		i := strings.Index(s[from:], sep)
		if i < 0 {
			break
		}
		i += from
		if first < 0 {
			first = i
		}
		if boundedAt(s, i, len(sep)) {
			return i
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		from = i + size
	}
	return first
}

func boundedAt(s string, start, n int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if !unicode.IsSpace(r) {
			return false
		}
	}
	if end := start + n; end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
