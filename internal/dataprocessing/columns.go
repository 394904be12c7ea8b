package dataprocessing

import (
	"regexp"
	"strings"
)

var wordSeparators = regexp.MustCompile(`[_\s]+`)

// NormalizeHeader maps a raw header string to its canonical snake_case
// form: surrounding whitespace stripped, lowercased, spaces replaced
// with underscores. Idempotent.
func NormalizeHeader(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// NormalizeHeaderStripParens is NormalizeHeader with parentheses removed,
// used by the schemas whose canonical names fold duration qualifiers
// into the column name ("Personal Conveyance (Duration)" becomes
// personal_conveyance_duration). Idempotent.
func NormalizeHeaderStripParens(name string) string {
	n := NormalizeHeader(name)
	n = strings.ReplaceAll(n, "(", "")
	n = strings.ReplaceAll(n, ")", "")
	return n
}

// matchKey reduces a header or search needle to the loose comparison
// form used by the classifier: lowercased with every run of whitespace
// and underscores collapsed to a single space. "PC_Duration",
// "pc duration" and " PC  Duration " all reduce to "pc duration", so
// containment checks are insensitive to the separator style of the
// source spreadsheet.
func matchKey(s string) string {
	return strings.TrimSpace(wordSeparators.ReplaceAllString(strings.ToLower(s), " "))
}

// matchKeys returns the matchKey form of every column header.
func matchKeys(columns []string) []string {
	keys := make([]string, len(columns))
	for i, c := range columns {
		keys[i] = matchKey(c)
	}
	return keys
}

// ColumnsContain reports whether any column header mentions the given
// substring, compared in matchKey form.
func ColumnsContain(t *Table, substring string) bool {
	return anyContains(matchKeys(t.Columns), substring)
}

func anyContains(keys []string, substring string) bool {
	needle := matchKey(substring)
	for _, k := range keys {
		if strings.Contains(k, needle) {
			return true
		}
	}
	return false
}

// anyContainsAll reports whether a single column mentions every one of
// the given substrings.
func anyContainsAll(keys []string, substrings ...string) bool {
	for _, k := range keys {
		all := true
		for _, sub := range substrings {
			if !strings.Contains(k, matchKey(sub)) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// hasKey reports whether some column reduces to exactly the given name.
func hasKey(keys []string, name string) bool {
	needle := matchKey(name)
	for _, k := range keys {
		if k == needle {
			return true
		}
	}
	return false
}

// findColumn returns the index of the first column mentioning all of the
// given substrings, or -1.
func findColumn(t *Table, substrings ...string) int {
	for i, c := range t.Columns {
		k := matchKey(c)
		all := true
		for _, sub := range substrings {
			if !strings.Contains(k, matchKey(sub)) {
				all = false
				break
			}
		}
		if all {
			return i
		}
	}
	return -1
}
