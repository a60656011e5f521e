package bibtex

import (
	"strings"
)

// Entry is one parsed BibTeX entry. Fields preserves the parsed values;
// Extra lists field names outside the fixed serialization order, in
// source order.
type Entry struct {
	Type    string
	Key     string
	Comment string // provenance comment line preceding the entry, if any
	Fields  map[string]string
	Extra   []string
}

// Parse re-parses BibTeX text into entries. Field values are read with
// brace-depth tracking, so nested braces inside a value are not
// truncated. Malformed trailing input is dropped rather than reported:
// cleaning is a best-effort pass.
func Parse(text string) []Entry {
	var entries []Entry
	var comment string

	i := 0
	n := len(text)
	for i < n {
		switch {
		case text[i] == '%':
			end := strings.IndexByte(text[i:], '\n')
			if end == -1 {
				end = n - i
			}
			comment = strings.TrimSpace(text[i : i+end])
			i += end
		case text[i] == '@':
			entry, next, ok := parseEntry(text, i)
			if !ok {
				return entries
			}
			entry.Comment = comment
			comment = ""
			entries = append(entries, entry)
			i = next
		default:
			i++
		}
	}
	return entries
}

// parseEntry parses one @type{key, field = {value}, ...} block starting
// at the '@' offset. Returns the entry, the offset past its closing
// brace, and whether parsing succeeded.
func parseEntry(text string, start int) (Entry, int, bool) {
	entry := Entry{Fields: make(map[string]string)}

	i := start + 1
	open := strings.IndexByte(text[i:], '{')
	if open == -1 {
		return entry, 0, false
	}
	entry.Type = strings.ToLower(strings.TrimSpace(text[i : i+open]))
	i += open + 1

	comma := strings.IndexByte(text[i:], ',')
	if comma == -1 {
		return entry, 0, false
	}
	entry.Key = strings.TrimSpace(text[i : i+comma])
	i += comma + 1

	n := len(text)
	for i < n {
		i = skipSpaceAndCommas(text, i)
		if i >= n {
			return entry, i, true
		}
		if text[i] == '}' {
			return entry, i + 1, true
		}

		eq := strings.IndexByte(text[i:], '=')
		if eq == -1 {
			return entry, n, true
		}
		name := strings.ToLower(strings.TrimSpace(text[i : i+eq]))
		i += eq + 1

		value, next, ok := parseValue(text, i)
		if !ok {
			return entry, n, true
		}
		i = next

		if _, exists := entry.Fields[name]; !exists && !isOrderedField(name) {
			entry.Extra = append(entry.Extra, name)
		}
		entry.Fields[name] = value
	}
	return entry, n, true
}

// parseValue reads a {braced} or "quoted" field value starting at or
// after offset i, tracking brace depth so inner braces survive.
func parseValue(text string, i int) (string, int, bool) {
	n := len(text)
	for i < n && (text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r') {
		i++
	}
	if i >= n {
		return "", 0, false
	}

	if text[i] == '"' {
		end := strings.IndexByte(text[i+1:], '"')
		if end == -1 {
			return "", 0, false
		}
		return text[i+1 : i+1+end], i + end + 2, true
	}

	if text[i] != '{' {
		// Bare value (e.g. year = 1936), read to comma or brace.
		j := i
		for j < n && text[j] != ',' && text[j] != '}' && text[j] != '\n' {
			j++
		}
		return strings.TrimSpace(text[i:j]), j, true
	}

	depth := 0
	for j := i; j < n; j++ {
		switch text[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[i+1 : j], j + 1, true
			}
		}
	}
	return "", 0, false
}

func skipSpaceAndCommas(text string, i int) int {
	for i < len(text) {
		switch text[i] {
		case ' ', '\t', '\n', '\r', ',':
			i++
		default:
			return i
		}
	}
	return i
}

func isOrderedField(name string) bool {
	for _, f := range fieldOrder {
		if f == name {
			return true
		}
	}
	return false
}
