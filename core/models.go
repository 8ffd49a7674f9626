package core

import (
	"encoding/binary"
	"slices"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for catalog entities.
// It is derived from the entity's identity key by content hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Category is the top-level functional classification of a part.
type Category string

const (
	CategorySensor     Category = "sensor"
	CategoryActuator   Category = "actuator"
	CategoryController Category = "controller"
	CategoryPower      Category = "power"
	CategoryMechanical Category = "mechanical"
	CategoryTooling    Category = "tooling"
)

// Categories lists every category in canonical order.
var Categories = []Category{
	CategorySensor,
	CategoryActuator,
	CategoryController,
	CategoryPower,
	CategoryMechanical,
	CategoryTooling,
}

var classNames = map[Category]string{
	CategorySensor:     "SensorPart",
	CategoryActuator:   "ActuatorPart",
	CategoryController: "ControllerBoard",
	CategoryPower:      "PowerSupply",
	CategoryMechanical: "Mechanical",
	CategoryTooling:    "Tooling",
}

// ClassName returns the ontology class a category maps to, e.g. "SensorPart".
func (c Category) ClassName() string {
	return classNames[c]
}

// IsValid reports whether c is one of the six catalog categories.
func (c Category) IsValid() bool {
	_, ok := classNames[c]
	return ok
}

// ResolveClass maps a query target class to a category.
// Both category names ("sensor") and class names ("SensorPart") are accepted,
// case-insensitively.
func ResolveClass(name string) (Category, bool) {
	name = strings.TrimSpace(name)
	for _, c := range Categories {
		if strings.EqualFold(name, string(c)) || strings.EqualFold(name, c.ClassName()) {
			return c, true
		}
	}
	return "", false
}

// Measure is an optional numeric attribute. The zero value is absent.
type Measure struct {
	Value float64
	Valid bool
}

// Some returns a present measure holding v.
func Some(v float64) Measure {
	return Measure{Value: v, Valid: true}
}

// Get returns the value and whether it is present.
func (m Measure) Get() (float64, bool) {
	return m.Value, m.Valid
}

// TokenSet is an immutable sorted set of vocabulary tokens.
type TokenSet struct {
	tokens []string
}

// NewTokenSet builds a set from tokens, dropping empties and duplicates.
func NewTokenSet(tokens ...string) TokenSet {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != "" {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return TokenSet{}
	}
	return TokenSet{tokens: out}
}

// Len returns the number of tokens.
func (s TokenSet) Len() int { return len(s.tokens) }

// IsEmpty reports whether the set holds no tokens.
func (s TokenSet) IsEmpty() bool { return len(s.tokens) == 0 }

// Has reports whether token is a member.
func (s TokenSet) Has(token string) bool {
	_, found := slices.BinarySearch(s.tokens, token)
	return found
}

// Values returns a copy of the tokens in sorted order.
func (s TokenSet) Values() []string {
	return slices.Clone(s.tokens)
}

// Union returns a new set holding the members of both sets.
func (s TokenSet) Union(other TokenSet) TokenSet {
	return NewTokenSet(append(slices.Clone(s.tokens), other.tokens...)...)
}

// Intersect returns the members of s that also appear in want, in sorted order.
func (s TokenSet) Intersect(want []string) []string {
	var out []string
	for _, t := range s.tokens {
		if slices.Contains(want, t) {
			out = append(out, t)
		}
	}
	return out
}

// Equal reports whether both sets hold the same tokens.
func (s TokenSet) Equal(other TokenSet) bool {
	return slices.Equal(s.tokens, other.tokens)
}

// String joins the tokens with "|".
func (s TokenSet) String() string {
	return strings.Join(s.tokens, "|")
}

// RawRecord is a flat, untyped part record as it arrives from a tabular source.
// Empty fields are absent.
type RawRecord struct {
	Manufacturer       string
	MPN                string
	Label              string
	Category           string
	Kind               string
	ObservedProperty   string
	ActuatableProperty string
	FeatureOfInterest  string
	VccMin             string
	VccMax             string
	LogicLevel         string
	IActiveMA          string
	IIdleUA            string
	PackageCase        string
	PinCount           string
	TempMinC           string
	TempMaxC           string
	Iface              string
	I2CAddrDefault     string
	I2CAddrRange       string
	SPIMaxMHz          string
	UARTBaud           string
	SampleRateMaxHz    string
	LatencyMs          string
	AccuracyPct        string
	RangeMin           string
	RangeMax           string
	Units              string
	DatasheetURL       string
	ProductURL         string
	OfferPrice         string
	Currency           string
	Lifecycle          string
	Notes              string

	Source string // Provenance, e.g. the file the record was read from
	Line   int    // 1-based data row within Source
}

// Part is a canonical, deduplicated catalog entry.
// Parts are built by the catalog package and are read-only afterwards.
type Part struct {
	Id           ID
	Key          string // Identity key derived from Label
	Label        string
	Manufacturer string
	MPN          string
	Category     Category
	Kind         string

	ObservesProperty  TokenSet
	ActsOnProperty    TokenSet
	Interfaces        TokenSet
	FeatureOfInterest TokenSet

	VccMin          Measure
	VccMax          Measure
	LogicLevel      Measure
	IActiveMA       Measure
	IIdleUA         Measure
	PinCount        Measure
	TempMinC        Measure
	TempMaxC        Measure
	SPIMaxMHz       Measure
	SampleRateMaxHz Measure
	LatencyMs       Measure
	AccuracyPct     Measure
	RangeMin        Measure
	RangeMax        Measure
	Price           Measure

	PackageCase    string
	I2CAddrDefault string
	I2CAddrRange   string
	UARTBaud       string
	Units          string
	DatasheetURL   string
	ProductURL     string
	Currency       string
	Lifecycle      string
	Notes          string
	Source         string
}

// Capabilities returns the union of observed and actuated properties.
func (p *Part) Capabilities() TokenSet {
	return p.ObservesProperty.Union(p.ActsOnProperty)
}

// InterfacePredicate names the relation used for the part's interfaces:
// controllers "support" interfaces, everything else "has" them.
func (p *Part) InterfacePredicate() string {
	if p.Category == CategoryController {
		return "supportsInterface"
	}
	return "hasInterface"
}

// TermKind distinguishes the vocabulary a term belongs to.
type TermKind int

const (
	// TermProperty is an observable and/or actuatable quantity.
	TermProperty TermKind = iota + 1
	// TermInterface is an electrical or protocol interface.
	TermInterface
	// TermFeature is a feature of interest.
	TermFeature
)

func (k TermKind) String() string {
	switch k {
	case TermProperty:
		return "property"
	case TermInterface:
		return "interface"
	case TermFeature:
		return "feature"
	}
	return "unknown"
}

// Term is an interned vocabulary individual referenced by parts.
type Term struct {
	Id         ID
	Kind       TermKind
	Token      string
	Observable bool // Property observed by at least one part
	Actuatable bool // Property acted upon by at least one part
}

// Tuple returns a string representation of the term as "(kind,token)".
// This is used for generating deterministic IDs.
func (t *Term) Tuple() string {
	return "(" + t.Kind.String() + "," + t.Token + ")"
}

// Query is a multi-attribute compatibility request.
// Zero-valued fields do not constrain the result.
type Query struct {
	TargetClass        string
	RequiredProperties []string
	RequiredInterfaces []string
	TargetVoltage      Measure
	MaxBudget          Measure
	Currency           string
}

// Match is a part that satisfied a query along with why it matched.
type Match struct {
	Part              Part
	Rank              int // 1-based
	MatchedProperties []string
	MatchedInterfaces []string
	PriceKnown        bool
}

// BuildRecord summarizes one catalog build for persistence.
type BuildRecord struct {
	RunID      string
	BuiltAt    time.Time
	Sources    []string
	Input      int
	Accepted   int
	Duplicates int
	Dropped    int
	Warnings   int
	Terms      int
	Settings   ID // Fingerprint of the settings the build ran with
}

// SourceState records the content of a source as of the last build that
// read it. Builds compare digests to skip unchanged inputs.
type SourceState struct {
	Path      string
	Digest    ID
	Records   int
	UpdatedAt time.Time
}
