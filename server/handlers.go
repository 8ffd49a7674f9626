package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/partkb/catalog"
	"github.com/poiesic/partkb/core"
	"github.com/poiesic/partkb/export"
	"github.com/poiesic/partkb/search"
)

// defaultClass is used when a recommendation request names no class.
const defaultClass = "sensor"

// anyClass is the class name that leaves the category unconstrained.
const anyClass = "Part"

// RecommendRequest is the body of POST /recommend. An empty Class means
// sensors, as it does for GET; "Part" leaves the category unconstrained.
type RecommendRequest struct {
	Class      string   `json:"cls"`
	Properties []string `json:"properties,omitempty"`
	Interfaces []string `json:"interfaces,omitempty"`
	Voltage    *float64 `json:"v,omitempty"`
	Budget     *float64 `json:"budget,omitempty"`
	Currency   string   `json:"currency,omitempty"`
	// Controller adds the interfaces of the named controller board.
	Controller string `json:"controller,omitempty"`
}

// PartView is the JSON form of a part.
type PartView struct {
	IRI               string   `json:"iri"`
	Key               string   `json:"key"`
	Label             string   `json:"label"`
	Manufacturer      string   `json:"manufacturer,omitempty"`
	MPN               string   `json:"mpn,omitempty"`
	Category          string   `json:"category"`
	Class             string   `json:"class"`
	Kind              string   `json:"kind"`
	ObservesProperty  []string `json:"observes_property,omitempty"`
	ActsOnProperty    []string `json:"acts_on_property,omitempty"`
	FeatureOfInterest []string `json:"feature_of_interest,omitempty"`
	Interfaces        []string `json:"interfaces,omitempty"`
	VccMin            *float64 `json:"vcc_min"`
	VccMax            *float64 `json:"vcc_max"`
	Price             *float64 `json:"price"`
	Currency          string   `json:"currency,omitempty"`
	DatasheetURL      string   `json:"datasheet_url,omitempty"`
	ProductURL        string   `json:"product_url,omitempty"`
	Notes             string   `json:"notes,omitempty"`
}

// MatchView is one ranked recommendation.
type MatchView struct {
	PartView
	Rank              int      `json:"rank"`
	MatchedProperties []string `json:"matched_properties,omitempty"`
	MatchedInterfaces []string `json:"matched_interfaces,omitempty"`
}

// StageView reports how many candidates survived a filter stage.
type StageView struct {
	Stage     string `json:"stage"`
	Remaining int    `json:"remaining"`
}

// RecommendResponse is the body returned by /recommend.
type RecommendResponse struct {
	Query    RecommendRequest `json:"query"`
	Class    string           `json:"class,omitempty"`
	Count    int              `json:"count"`
	Results  []MatchView      `json:"results"`
	Stages   []StageView      `json:"stages"`
	Warnings []string         `json:"warnings,omitempty"`
}

// StatusResponse is the body returned by /status.
type StatusResponse struct {
	Status     string         `json:"status"`
	Parts      int            `json:"parts"`
	Terms      int            `json:"terms"`
	ByCategory map[string]int `json:"by_category"`
	RunID      string         `json:"run_id,omitempty"`
	BuiltAt    *time.Time     `json:"built_at,omitempty"`
	Sources    []string       `json:"sources,omitempty"`
	LoadedAt   time.Time      `json:"loaded_at"`
}

func (s *Server) handleRecommendQuery(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.recommend(w, req)
}

func (s *Server) handleRecommendJSON(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	s.recommend(w, req)
}

// requestFromQuery reads the query-string form. Repeated and
// comma-separated values are both accepted for properties and interfaces.
func requestFromQuery(v url.Values) (RecommendRequest, error) {
	req := RecommendRequest{
		Class:      firstOf(v, "category", "cls"),
		Properties: splitValues(v["property"], v["properties"]),
		Interfaces: splitValues(v["interface"], v["interfaces"]),
		Currency:   v.Get("currency"),
		Controller: v.Get("controller"),
	}
	for name, dst := range map[string]**float64{"v": &req.Voltage, "budget": &req.Budget} {
		raw := strings.TrimSpace(v.Get(name))
		if raw == "" {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, fmt.Errorf("%w: %s must be a number", ErrBadRequest, name)
		}
		*dst = &f
	}
	return req, nil
}

// validate rejects numeric constraints no part can be compared against.
func (r RecommendRequest) validate() error {
	for _, n := range []struct {
		name string
		v    *float64
	}{{"v", r.Voltage}, {"budget", r.Budget}} {
		if n.v != nil && (math.IsNaN(*n.v) || math.IsInf(*n.v, 0)) {
			return fmt.Errorf("%w: %s must be a finite number", ErrBadRequest, n.name)
		}
	}
	return nil
}

func (s *Server) recommend(w http.ResponseWriter, req RecommendRequest) {
	if strings.TrimSpace(req.Class) == "" {
		req.Class = defaultClass
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	cat := s.Catalog()

	q := core.Query{
		TargetClass:        req.Class,
		RequiredProperties: req.Properties,
		RequiredInterfaces: req.Interfaces,
		Currency:           req.Currency,
	}
	if strings.EqualFold(strings.TrimSpace(q.TargetClass), anyClass) {
		q.TargetClass = ""
	}
	if req.Voltage != nil {
		q.TargetVoltage = core.Some(*req.Voltage)
	}
	if req.Budget != nil {
		q.MaxBudget = core.Some(*req.Budget)
	}
	if req.Controller != "" {
		ifaces, err := search.InterfacesForController(cat, req.Controller)
		switch {
		case errors.Is(err, search.ErrPartNotFound):
			writeError(w, http.StatusNotFound, err)
			return
		case err != nil:
			writeError(w, http.StatusBadRequest, err)
			return
		}
		q.RequiredInterfaces = append(q.RequiredInterfaces, ifaces...)
	}

	res, err := s.searcher.SearchWithMonitor(cat, q, &searchMonitor{metrics: s.metrics})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := RecommendResponse{
		Query:   req,
		Class:   res.Class.ClassName(),
		Count:   len(res.Matches),
		Results: make([]MatchView, 0, len(res.Matches)),
		Stages:  make([]StageView, 0, len(res.Stages)),
	}
	for _, m := range res.Matches {
		resp.Results = append(resp.Results, NewMatchView(m))
	}
	for _, st := range res.Stages {
		resp.Stages = append(resp.Stages, StageView{Stage: string(st.Stage), Remaining: st.Remaining})
	}
	for _, d := range res.Diagnostics.All() {
		resp.Warnings = append(resp.Warnings, d.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePart(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	p, ok := s.Catalog().Part(key)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %q", search.ErrPartNotFound, key))
		return
	}
	writeJSON(w, http.StatusOK, NewPartView(p))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	cur := s.current.Load()
	writeJSON(w, http.StatusOK, newStatus(cur.catalog, cur.loadedAt))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func newStatus(cat *catalog.Catalog, loadedAt time.Time) StatusResponse {
	meta := cat.Metadata()
	st := StatusResponse{
		Status:     "online",
		Parts:      cat.Len(),
		Terms:      len(cat.Terms()),
		ByCategory: make(map[string]int),
		RunID:      meta.RunID,
		Sources:    meta.Sources,
		LoadedAt:   loadedAt,
	}
	if !meta.BuiltAt.IsZero() {
		builtAt := meta.BuiltAt
		st.BuiltAt = &builtAt
	}
	for c, n := range cat.CountByCategory() {
		st.ByCategory[string(c)] = n
	}
	return st
}

// NewPartView converts a part for JSON output.
func NewPartView(p core.Part) PartView {
	return PartView{
		IRI:               export.PartIRI(p),
		Key:               p.Key,
		Label:             p.Label,
		Manufacturer:      p.Manufacturer,
		MPN:               p.MPN,
		Category:          string(p.Category),
		Class:             p.Category.ClassName(),
		Kind:              p.Kind,
		ObservesProperty:  p.ObservesProperty.Values(),
		ActsOnProperty:    p.ActsOnProperty.Values(),
		FeatureOfInterest: p.FeatureOfInterest.Values(),
		Interfaces:        p.Interfaces.Values(),
		VccMin:            optional(p.VccMin),
		VccMax:            optional(p.VccMax),
		Price:             optional(p.Price),
		Currency:          p.Currency,
		DatasheetURL:      p.DatasheetURL,
		ProductURL:        p.ProductURL,
		Notes:             p.Notes,
	}
}

// NewMatchView converts a ranked match for JSON output.
func NewMatchView(m core.Match) MatchView {
	return MatchView{
		PartView:          NewPartView(m.Part),
		Rank:              m.Rank,
		MatchedProperties: m.MatchedProperties,
		MatchedInterfaces: m.MatchedInterfaces,
	}
}

func optional(m core.Measure) *float64 {
	v, ok := m.Get()
	if !ok {
		return nil
	}
	return &v
}

func firstOf(v url.Values, names ...string) string {
	for _, name := range names {
		if s := strings.TrimSpace(v.Get(name)); s != "" {
			return s
		}
	}
	return ""
}

func splitValues(lists ...[]string) []string {
	var out []string
	for _, values := range lists {
		for _, v := range values {
			for _, tok := range strings.Split(v, ",") {
				if tok = strings.TrimSpace(tok); tok != "" {
					out = append(out, tok)
				}
			}
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
