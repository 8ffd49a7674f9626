package core

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Persisted records are encoded with MUS. Each type lists its fields once in
// a walk function that is reused to size, write and read the encoding, so
// the three can never disagree on field order.

type fieldWalker interface {
	str(v *string)
	strs(v *[]string)
	integer(v *int)
	u64(v *uint64)
	f64(v *float64)
	flag(v *bool)
	when(v *time.Time)
}

type musSizer struct{ n int }

func (s *musSizer) str(v *string) { s.n += ord.String.Size(*v) }

func (s *musSizer) strs(v *[]string) {
	s.n += varint.Int.Size(len(*v))
	for _, e := range *v {
		s.n += ord.String.Size(e)
	}
}

func (s *musSizer) integer(v *int)    { s.n += varint.Int.Size(*v) }
func (s *musSizer) u64(v *uint64)     { s.n += varint.Uint64.Size(*v) }
func (s *musSizer) f64(v *float64)    { s.n += raw.Float64.Size(*v) }
func (s *musSizer) flag(v *bool)      { s.n += ord.Bool.Size(*v) }
func (s *musSizer) when(v *time.Time) { s.n += varint.Int64.Size(v.UnixMicro()) }

type musWriter struct {
	bs []byte
	n  int
}

func (w *musWriter) str(v *string) { w.n += ord.String.Marshal(*v, w.bs[w.n:]) }

func (w *musWriter) strs(v *[]string) {
	w.n += varint.Int.Marshal(len(*v), w.bs[w.n:])
	for _, e := range *v {
		w.n += ord.String.Marshal(e, w.bs[w.n:])
	}
}

func (w *musWriter) integer(v *int)    { w.n += varint.Int.Marshal(*v, w.bs[w.n:]) }
func (w *musWriter) u64(v *uint64)     { w.n += varint.Uint64.Marshal(*v, w.bs[w.n:]) }
func (w *musWriter) f64(v *float64)    { w.n += raw.Float64.Marshal(*v, w.bs[w.n:]) }
func (w *musWriter) flag(v *bool)      { w.n += ord.Bool.Marshal(*v, w.bs[w.n:]) }
func (w *musWriter) when(v *time.Time) { w.n += varint.Int64.Marshal(v.UnixMicro(), w.bs[w.n:]) }

// musReader stops at the first error; later reads leave their targets alone.
type musReader struct {
	bs  []byte
	n   int
	err error
}

func (r *musReader) str(v *string) {
	if r.err != nil {
		return
	}
	var m int
	*v, m, r.err = ord.String.Unmarshal(r.bs[r.n:])
	r.n += m
}

func (r *musReader) strs(v *[]string) {
	var count int
	r.integer(&count)
	if r.err != nil {
		return
	}
	// Every element takes at least one byte.
	if count < 0 || count > len(r.bs)-r.n {
		r.err = fmt.Errorf("%w: list length %d", ErrCorruptEncoding, count)
		return
	}
	if count == 0 {
		*v = nil
		return
	}
	out := make([]string, count)
	for i := range out {
		r.str(&out[i])
	}
	*v = out
}

func (r *musReader) integer(v *int) {
	if r.err != nil {
		return
	}
	var m int
	*v, m, r.err = varint.Int.Unmarshal(r.bs[r.n:])
	r.n += m
}

func (r *musReader) u64(v *uint64) {
	if r.err != nil {
		return
	}
	var m int
	*v, m, r.err = varint.Uint64.Unmarshal(r.bs[r.n:])
	r.n += m
}

func (r *musReader) f64(v *float64) {
	if r.err != nil {
		return
	}
	var m int
	*v, m, r.err = raw.Float64.Unmarshal(r.bs[r.n:])
	r.n += m
}

func (r *musReader) flag(v *bool) {
	if r.err != nil {
		return
	}
	var m int
	*v, m, r.err = ord.Bool.Unmarshal(r.bs[r.n:])
	r.n += m
}

func (r *musReader) when(v *time.Time) {
	if r.err != nil {
		return
	}
	us, m, err := varint.Int64.Unmarshal(r.bs[r.n:])
	r.n += m
	if err != nil {
		r.err = err
		return
	}
	*v = time.UnixMicro(us).UTC()
}

// recordMUS is a MUS serializer for T driven by a walk function.
type recordMUS[T any] struct {
	walk func(fieldWalker, *T)
}

// Size returns the encoded size of v.
func (s recordMUS[T]) Size(v T) int {
	sz := &musSizer{}
	s.walk(sz, &v)
	return sz.n
}

// Marshal encodes v into bs, which must hold Size(v) bytes, and returns the
// number of bytes written.
func (s recordMUS[T]) Marshal(v T, bs []byte) int {
	w := &musWriter{bs: bs}
	s.walk(w, &v)
	return w.n
}

// Unmarshal decodes a value from bs and returns it with the bytes consumed.
func (s recordMUS[T]) Unmarshal(bs []byte) (v T, n int, err error) {
	r := &musReader{bs: bs}
	s.walk(r, &v)
	return v, r.n, r.err
}

var (
	IDMUS          = recordMUS[ID]{walk: walkID}
	PartMUS        = recordMUS[Part]{walk: walkPart}
	TermMUS        = recordMUS[Term]{walk: walkTerm}
	BuildRecordMUS = recordMUS[BuildRecord]{walk: walkBuildRecord}
	SourceStateMUS = recordMUS[SourceState]{walk: walkSourceState}
)

func walkID(w fieldWalker, id *ID) {
	u := uint64(*id)
	w.u64(&u)
	*id = ID(u)
}

func walkMeasure(w fieldWalker, m *Measure) {
	w.flag(&m.Valid)
	if m.Valid {
		w.f64(&m.Value)
	}
}

func walkTokens(w fieldWalker, s *TokenSet) {
	w.strs(&s.tokens)
}

func walkCategory(w fieldWalker, c *Category) {
	s := string(*c)
	w.str(&s)
	*c = Category(s)
}

func walkPart(w fieldWalker, p *Part) {
	walkID(w, &p.Id)
	for _, s := range []*string{&p.Key, &p.Label, &p.Manufacturer, &p.MPN} {
		w.str(s)
	}
	walkCategory(w, &p.Category)
	w.str(&p.Kind)
	for _, ts := range []*TokenSet{&p.ObservesProperty, &p.ActsOnProperty, &p.Interfaces, &p.FeatureOfInterest} {
		walkTokens(w, ts)
	}
	for _, m := range []*Measure{
		&p.VccMin, &p.VccMax, &p.LogicLevel, &p.IActiveMA, &p.IIdleUA,
		&p.PinCount, &p.TempMinC, &p.TempMaxC, &p.SPIMaxMHz, &p.SampleRateMaxHz,
		&p.LatencyMs, &p.AccuracyPct, &p.RangeMin, &p.RangeMax, &p.Price,
	} {
		walkMeasure(w, m)
	}
	for _, s := range []*string{
		&p.PackageCase, &p.I2CAddrDefault, &p.I2CAddrRange, &p.UARTBaud, &p.Units,
		&p.DatasheetURL, &p.ProductURL, &p.Currency, &p.Lifecycle, &p.Notes, &p.Source,
	} {
		w.str(s)
	}
}

func walkTerm(w fieldWalker, t *Term) {
	walkID(w, &t.Id)
	kind := int(t.Kind)
	w.integer(&kind)
	t.Kind = TermKind(kind)
	w.str(&t.Token)
	w.flag(&t.Observable)
	w.flag(&t.Actuatable)
}

func walkBuildRecord(w fieldWalker, b *BuildRecord) {
	w.str(&b.RunID)
	w.when(&b.BuiltAt)
	w.strs(&b.Sources)
	for _, n := range []*int{&b.Input, &b.Accepted, &b.Duplicates, &b.Dropped, &b.Warnings, &b.Terms} {
		w.integer(n)
	}
	walkID(w, &b.Settings)
}

func walkSourceState(w fieldWalker, s *SourceState) {
	w.str(&s.Path)
	walkID(w, &s.Digest)
	w.integer(&s.Records)
	w.when(&s.UpdatedAt)
}
