package export

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/partkb/catalog"
	"github.com/poiesic/partkb/core"
)

// Namespaces used by the exported graph.
const (
	OntologyIRI = "https://example.org/iotkb"
	Namespace   = OntologyIRI + "#"

	nsSOSA = "http://www.w3.org/ns/sosa/"
	nsXSD  = "http://www.w3.org/2001/XMLSchema#"
	nsOWL  = "http://www.w3.org/2002/07/owl#"
	nsRDFS = "http://www.w3.org/2000/01/rdf-schema#"
	nsRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

	rdfType = nsRDF + "type"
)

// prefix binds a short name to a namespace for Turtle output.
type prefix struct {
	name string
	iri  string
}

// prefixes are written in this order.
var prefixes = []prefix{
	{"ex", Namespace},
	{"sosa", nsSOSA},
	{"xsd", nsXSD},
	{"owl", nsOWL},
	{"rdfs", nsRDFS},
}

// Object is the object of a triple: an IRI or a literal.
type Object struct {
	IRI      string
	Literal  string
	Datatype string // Literal datatype IRI, empty for plain strings
}

// IsIRI reports whether the object is a resource rather than a literal.
func (o Object) IsIRI() bool { return o.IRI != "" }

// Triple is one RDF statement with absolute IRIs.
type Triple struct {
	Subject   string
	Predicate string
	Object    Object
}

func iri(s string) Object                    { return Object{IRI: s} }
func literal(s string) Object                { return Object{Literal: s} }
func typedLiteral(s, datatype string) Object { return Object{Literal: s, Datatype: datatype} }

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]+`)

// LocalName turns free text into an IRI-safe local name. Runs of other
// characters become "_"; text with nothing usable becomes "unnamed".
func LocalName(s string) string {
	s = strings.Trim(nonAlnum.ReplaceAllString(strings.TrimSpace(s), "_"), "_")
	if s == "" {
		return "unnamed"
	}
	return s
}

// exIRI returns the resource IRI for a local name in the catalog namespace.
func exIRI(name string) string {
	return Namespace + LocalName(name)
}

// PartIRI returns the IRI a part is exported under.
func PartIRI(p core.Part) string {
	return exIRI(p.Label)
}

// Triples renders a catalog as RDF statements: the ontology header, one
// declaration per vocabulary term, then every part ordered by key.
func Triples(cat *catalog.Catalog) []Triple {
	parts := OntologyIRI + "/parts"
	out := []Triple{
		{parts, rdfType, iri(nsOWL + "Ontology")},
		{parts, nsRDFS + "label", literal("IoT Knowledge Base Parts")},
		{parts, nsOWL + "imports", iri(OntologyIRI)},
	}

	for _, t := range cat.Terms() {
		out = append(out, termTriples(t)...)
	}
	for _, p := range cat.SortedParts() {
		out = append(out, partTriples(p)...)
	}
	return out
}

// termTriples declares one vocabulary term.
func termTriples(t core.Term) []Triple {
	subject := exIRI(t.Token)
	var out []Triple
	switch t.Kind {
	case core.TermProperty:
		if t.Observable {
			out = append(out, Triple{subject, rdfType, iri(nsSOSA + "ObservableProperty")})
		}
		if t.Actuatable {
			out = append(out, Triple{subject, rdfType, iri(nsSOSA + "ActuatableProperty")})
		}
		if len(out) == 0 {
			out = append(out, Triple{subject, rdfType, iri(nsSOSA + "Property")})
		}
	case core.TermInterface:
		out = append(out, Triple{subject, rdfType, iri(Namespace + "Interface")})
	case core.TermFeature:
		out = append(out, Triple{subject, rdfType, iri(nsSOSA + "FeatureOfInterest")})
	}
	return out
}

// partTriples renders every present attribute of a part.
func partTriples(p core.Part) []Triple {
	subject := PartIRI(p)
	out := []Triple{{subject, rdfType, iri(Namespace + p.Category.ClassName())}}
	add := func(pred string, o Object) {
		out = append(out, Triple{subject, pred, o})
	}
	str := func(pred, v string) {
		if v != "" {
			add(pred, literal(v))
		}
	}
	dec := func(pred string, m core.Measure) {
		if v, ok := m.Get(); ok {
			add(pred, typedLiteral(strconv.FormatFloat(v, 'f', -1, 64), nsXSD+"decimal"))
		}
	}
	url := func(pred, v string) {
		switch {
		case v == "":
		case strings.HasPrefix(v, "http"):
			add(pred, typedLiteral(v, nsXSD+"anyURI"))
		default:
			add(pred, literal(v))
		}
	}
	refs := func(pred string, s core.TokenSet) {
		for _, tok := range s.Values() {
			add(pred, iri(exIRI(tok)))
		}
	}

	str(nsRDFS+"label", p.Label)
	str(Namespace+"partKind", p.Kind)
	str(Namespace+"manufacturer", p.Manufacturer)
	str(Namespace+"mpn", p.MPN)

	refs(nsSOSA+"observesProperty", p.ObservesProperty)
	refs(nsSOSA+"actsOnProperty", p.ActsOnProperty)
	refs(nsSOSA+"hasFeatureOfInterest", p.FeatureOfInterest)
	refs(Namespace+p.InterfacePredicate(), p.Interfaces)

	dec(Namespace+"vccMin", p.VccMin)
	dec(Namespace+"vccMax", p.VccMax)
	dec(Namespace+"logicLevel", p.LogicLevel)
	dec(Namespace+"iActive_mA", p.IActiveMA)
	dec(Namespace+"iIdle_uA", p.IIdleUA)

	str(Namespace+"packageCase", p.PackageCase)
	if v, ok := p.PinCount.Get(); ok {
		add(Namespace+"pinCount", typedLiteral(strconv.FormatInt(int64(v), 10), nsXSD+"integer"))
	}
	dec(Namespace+"tempMinC", p.TempMinC)
	dec(Namespace+"tempMaxC", p.TempMaxC)

	str(Namespace+"i2cAddrDefault", p.I2CAddrDefault)
	str(Namespace+"i2cAddrRange", p.I2CAddrRange)
	dec(Namespace+"spiMaxFreq_MHz", p.SPIMaxMHz)
	str(Namespace+"uartBaud", p.UARTBaud)

	dec(Namespace+"sampleRateMax_Hz", p.SampleRateMaxHz)
	dec(Namespace+"latency_ms", p.LatencyMs)
	dec(Namespace+"accuracy_pct", p.AccuracyPct)
	dec(Namespace+"rangeMin", p.RangeMin)
	dec(Namespace+"rangeMax", p.RangeMax)
	str(Namespace+"units", p.Units)

	url(Namespace+"datasheetURL", p.DatasheetURL)
	url(Namespace+"productURL", p.ProductURL)
	dec(Namespace+"offerPrice", p.Price)
	str(Namespace+"priceCurrency", p.Currency)
	str(Namespace+"lifecycle", p.Lifecycle)
	str(Namespace+"notes", p.Notes)
	return out
}

// escapeLiteral escapes a string for a quoted N-Triples or Turtle literal.
func escapeLiteral(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
