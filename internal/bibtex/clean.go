package bibtex

import (
	"fmt"
	"strings"

	"github.com/bibex/bibex/internal/reference"
)

// CleanOptions controls the BibTeX re-formatting pass.
type CleanOptions struct {
	// Strip lists field names removed from every entry.
	Strip []string
	// Dedupe drops entries repeating an earlier citation key.
	Dedupe bool
	// Format re-applies the author and journal transforms.
	Format reference.FormatOptions
}

// Clean re-parses BibTeX text and re-emits it: stripping configured
// fields, deduplicating by citation key, normalizing extraneous inner
// braces around names, and re-applying the author/journal transforms.
// The pass is idempotent: cleaning cleaned text is a no-op.
func Clean(text string, opts CleanOptions) string {
	entries := Parse(text)

	strip := make(map[string]bool, len(opts.Strip))
	for _, f := range opts.Strip {
		strip[strings.ToLower(f)] = true
	}

	seen := make(map[string]bool, len(entries))
	var out []string

	for _, e := range entries {
		if opts.Dedupe {
			if seen[e.Key] {
				continue
			}
			seen[e.Key] = true
		}

		for name := range e.Fields {
			if strip[name] {
				delete(e.Fields, name)
			}
		}
		if author, ok := e.Fields["author"]; ok {
			e.Fields["author"] = normalizeNameBraces(author)
		}
		applyFormatOptions(e.Fields, opts.Format)

		out = append(out, formatEntry(e, strip))
	}

	return strings.Join(out, "\n")
}

// formatEntry re-serializes a parsed entry with the fixed field order
// first, then any surviving extra fields in source order.
func formatEntry(e Entry, strip map[string]bool) string {
	var b strings.Builder
	if e.Comment != "" {
		b.WriteString(e.Comment)
		b.WriteString("\n")
	}

	entryType := e.Type
	if entryType == "" {
		entryType = "article"
	}
	fmt.Fprintf(&b, "@%s{%s,\n", entryType, e.Key)

	for _, name := range fieldOrder {
		if v, ok := e.Fields[name]; ok && v != "" {
			fmt.Fprintf(&b, "  %s = {%s},\n", name, v)
		}
	}
	for _, name := range e.Extra {
		if strip[name] {
			continue
		}
		if v, ok := e.Fields[name]; ok && v != "" {
			fmt.Fprintf(&b, "  %s = {%s},\n", name, v)
		}
	}
	b.WriteString("}\n")
	return b.String()
}

// normalizeNameBraces removes extraneous inner braces around name parts
// in an author field: "{Turing}, {Alan}" becomes "Turing, Alan". The
// outermost braces were already consumed by the parser, so every brace
// left in the value is decoration.
func normalizeNameBraces(author string) string {
	author = strings.ReplaceAll(author, "{", "")
	author = strings.ReplaceAll(author, "}", "")
	return strings.Join(strings.Fields(author), " ")
}
