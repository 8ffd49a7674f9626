package export

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/poiesic/partkb/catalog"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatCSV produces a part table in canonical column order.
	FormatCSV Format = "csv"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	Name      Format
	MIMEType  string
	Extension string // With the leading dot
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle:   {Name: FormatTurtle, MIMEType: "text/turtle", Extension: ".ttl"},
	FormatNTriples: {Name: FormatNTriples, MIMEType: "application/n-triples", Extension: ".nt"},
	FormatCSV:      {Name: FormatCSV, MIMEType: "text/csv", Extension: ".csv"},
}

// ParseFormat accepts a format name ("turtle", "ttl", "nt", ...) or a file
// extension.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	switch s {
	case "turtle", "ttl":
		return FormatTurtle, nil
	case "ntriples", "n-triples", "nt":
		return FormatNTriples, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatForPath picks the format from a file name's extension.
func FormatForPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Write serializes a catalog in the given format.
func Write(w io.Writer, cat *catalog.Catalog, format Format) error {
	if cat == nil {
		return ErrCatalogRequired
	}
	switch format {
	case FormatTurtle:
		return WriteTurtle(w, cat)
	case FormatNTriples:
		return WriteNTriples(w, cat)
	case FormatCSV:
		return WriteCatalogCSV(w, cat)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// WriteTurtle writes the catalog graph as Turtle. Statements about one
// subject are grouped into a single block.
func WriteTurtle(w io.Writer, cat *catalog.Catalog) error {
	bw := bufio.NewWriter(w)
	for _, p := range prefixes {
		fmt.Fprintf(bw, "@prefix %-5s <%s> .\n", p.name+":", p.iri)
	}

	var current string
	for _, t := range Triples(cat) {
		if t.Subject != current {
			if current != "" {
				bw.WriteString(" .\n")
			}
			current = t.Subject
			fmt.Fprintf(bw, "\n%s\n", compact(t.Subject))
		} else {
			bw.WriteString(" ;\n")
		}
		pred := compact(t.Predicate)
		if t.Predicate == rdfType {
			pred = "a"
		}
		fmt.Fprintf(bw, "    %s %s", pred, turtleObject(t.Object))
	}
	if current != "" {
		bw.WriteString(" .\n")
	}
	return bw.Flush()
}

// WriteNTriples writes the catalog graph as N-Triples, one statement per line.
func WriteNTriples(w io.Writer, cat *catalog.Catalog) error {
	bw := bufio.NewWriter(w)
	for _, t := range Triples(cat) {
		fmt.Fprintf(bw, "<%s> <%s> %s .\n", t.Subject, t.Predicate, ntriplesObject(t.Object))
	}
	return bw.Flush()
}

// compact shortens an IRI with a known prefix, or brackets it.
func compact(full string) string {
	for _, p := range prefixes {
		local, ok := strings.CutPrefix(full, p.iri)
		if ok && local != "" && isPlainLocal(local) {
			return p.name + ":" + local
		}
	}
	return "<" + full + ">"
}

// isPlainLocal reports whether s can be written as a prefixed local name
// without escaping.
func isPlainLocal(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

func turtleObject(o Object) string {
	if o.IsIRI() {
		return compact(o.IRI)
	}
	lit := `"` + escapeLiteral(o.Literal) + `"`
	if o.Datatype != "" {
		lit += "^^" + compact(o.Datatype)
	}
	return lit
}

func ntriplesObject(o Object) string {
	if o.IsIRI() {
		return "<" + o.IRI + ">"
	}
	lit := `"` + escapeLiteral(o.Literal) + `"`
	if o.Datatype != "" {
		lit += "^^<" + o.Datatype + ">"
	}
	return lit
}
