package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/partkb/catalog"
	"github.com/poiesic/partkb/core"
	"github.com/poiesic/partkb/search"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, report := catalog.Build([]*core.RawRecord{
		{
			Manufacturer: "Generic", MPN: "HC-SR04", Label: "HC-SR04", Category: "sensor", Kind: "distance",
			ObservedProperty: "distance", VccMin: "4.5", VccMax: "5.5", Iface: "GPIO",
			OfferPrice: "3.5", Currency: "CAD",
		},
		{Label: "VL53L0X ToF", Category: "sensor", Kind: "distance", ObservedProperty: "distance", Iface: "I2C", VccMin: "2.6", VccMax: "3.5"},
		{Label: "DHT22", Category: "sensor", Kind: "humidity", ObservedProperty: "temperature|humidity", Iface: "GPIO", OfferPrice: "9", Currency: "CAD"},
		{Label: "SG90 Micro Servo", Category: "actuator", Kind: "motor_servo", ActuatableProperty: "angular_position", Iface: "PWM"},
		{Label: "Arduino Uno", Category: "controller", Kind: "arduino"},
	})
	require.Zero(t, report.Diagnostics.Len())
	return cat
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	searcher, err := search.NewSearcher()
	require.NoError(t, err)
	srv, err := NewServer(searcher, fixtureCatalog(t))
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func getJSON(t *testing.T, url string, into any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
	return resp.StatusCode
}

func postJSON(t *testing.T, url, body string, into any) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
	return resp.StatusCode
}

func labels(resp RecommendResponse) []string {
	out := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, r.Label)
	}
	return out
}

func TestNewServer_Validation(t *testing.T) {
	searcher, err := search.NewSearcher()
	require.NoError(t, err)

	_, err = NewServer(nil, fixtureCatalog(t))
	assert.ErrorIs(t, err, ErrSearcherRequired)

	_, err = NewServer(searcher, nil)
	assert.ErrorIs(t, err, ErrCatalogRequired)
}

func TestRecommend_Query(t *testing.T) {
	_, ts := newTestServer(t)

	var resp RecommendResponse
	code := getJSON(t, ts.URL+"/recommend?category=sensor&property=distance", &resp)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "SensorPart", resp.Class)
	assert.Equal(t, []string{"HC-SR04", "VL53L0X ToF"}, labels(resp), "priced parts rank first")
	assert.Equal(t, 1, resp.Results[0].Rank)
	assert.Equal(t, []string{"distance"}, resp.Results[0].MatchedProperties)
	assert.Len(t, resp.Stages, len(search.Stages))
	require.NotNil(t, resp.Results[0].Price)
	assert.Equal(t, 3.5, *resp.Results[0].Price)
	assert.Nil(t, resp.Results[1].Price)
	assert.True(t, strings.HasSuffix(resp.Results[0].IRI, "#HC_SR04"))

	t.Run("defaults to sensors", func(t *testing.T) {
		var resp RecommendResponse
		getJSON(t, ts.URL+"/recommend", &resp)
		assert.Equal(t, 3, resp.Count)
	})

	t.Run("voltage and budget", func(t *testing.T) {
		var byVoltage, byBudget RecommendResponse
		getJSON(t, ts.URL+"/recommend?property=distance&v=5", &byVoltage)
		assert.Equal(t, []string{"HC-SR04"}, labels(byVoltage))

		getJSON(t, ts.URL+"/recommend?budget=5", &byBudget)
		assert.Equal(t, []string{"HC-SR04", "VL53L0X ToF"}, labels(byBudget), "unpriced parts pass the budget")
	})

	t.Run("bad number", func(t *testing.T) {
		var body map[string]string
		code := getJSON(t, ts.URL+"/recommend?v=five", &body)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, body["error"], "v must be a number")
	})

	t.Run("non-finite numbers", func(t *testing.T) {
		for _, q := range []string{"v=NaN", "budget=Inf", "v=-inf", "budget=nan"} {
			var body map[string]string
			code := getJSON(t, ts.URL+"/recommend?"+q, &body)
			assert.Equal(t, http.StatusBadRequest, code, q)
			assert.Contains(t, body["error"], "must be a finite number", q)
		}
	})

	t.Run("unknown class", func(t *testing.T) {
		var resp RecommendResponse
		code := getJSON(t, ts.URL+"/recommend?category=gizmo", &resp)
		assert.Equal(t, http.StatusOK, code)
		assert.Zero(t, resp.Count)
		assert.Empty(t, resp.Results)
		require.Len(t, resp.Warnings, 1)
		assert.Contains(t, resp.Warnings[0], "gizmo")
	})
}

func TestRecommend_JSON(t *testing.T) {
	_, ts := newTestServer(t)

	var resp RecommendResponse
	code := postJSON(t, ts.URL+"/recommend", `{"cls":"SensorPart","properties":["distance"],"interfaces":["I2C"]}`, &resp)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"VL53L0X ToF"}, labels(resp))
	assert.Equal(t, []string{"I2C"}, resp.Results[0].MatchedInterfaces)

	var unconstrained RecommendResponse
	code = postJSON(t, ts.URL+"/recommend", `{"cls":"Part","currency":"CAD","budget":5}`, &unconstrained)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, unconstrained.Class)
	assert.Equal(t, []string{"HC-SR04", "Arduino Uno", "SG90 Micro Servo", "VL53L0X ToF"}, labels(unconstrained))

	var body map[string]string
	code = postJSON(t, ts.URL+"/recommend", `{"cls":`, &body)
	assert.Equal(t, http.StatusBadRequest, code)

	t.Run("empty class defaults to sensors like GET", func(t *testing.T) {
		var post, get RecommendResponse
		require.Equal(t, http.StatusOK, postJSON(t, ts.URL+"/recommend", `{}`, &post))
		require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/recommend", &get))
		assert.Equal(t, "SensorPart", post.Class)
		assert.Equal(t, labels(get), labels(post))
		assert.Equal(t, "sensor", post.Query.Class)
	})
}

func TestRecommend_Controller(t *testing.T) {
	_, ts := newTestServer(t)

	var actuators, sensors RecommendResponse
	code := postJSON(t, ts.URL+"/recommend", `{"cls":"actuator","controller":"Arduino Uno"}`, &actuators)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, actuators.Results, "servo speaks PWM, which the default controller set lacks")

	code = getJSON(t, ts.URL+"/recommend?controller=arduino_uno&property=temperature", &sensors)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"DHT22"}, labels(sensors))

	var body map[string]string
	code = getJSON(t, ts.URL+"/recommend?controller=nope", &body)
	assert.Equal(t, http.StatusNotFound, code)
	code = getJSON(t, ts.URL+"/recommend?controller=DHT22", &body)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPart(t *testing.T) {
	_, ts := newTestServer(t)

	var view PartView
	code := getJSON(t, ts.URL+"/parts/HC-SR04", &view)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "sensor", view.Category)
	assert.Equal(t, "SensorPart", view.Class)
	assert.Equal(t, []string{"distance"}, view.ObservesProperty)
	require.NotNil(t, view.VccMin)
	assert.Equal(t, 4.5, *view.VccMin)

	var body map[string]string
	code = getJSON(t, ts.URL+"/parts/unknown", &body)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestStatusAndHealth(t *testing.T) {
	_, ts := newTestServer(t)

	var st StatusResponse
	code := getJSON(t, ts.URL+"/status", &st)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "online", st.Status)
	assert.Equal(t, 5, st.Parts)
	assert.Equal(t, 3, st.ByCategory["sensor"])
	assert.Positive(t, st.Terms)
	assert.NotEmpty(t, st.RunID)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "OK", string(body))

	resp, err = http.Post(ts.URL+"/status", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	srv, ts := newTestServer(t)

	var resp RecommendResponse
	getJSON(t, ts.URL+"/recommend?property=distance", &resp)
	getJSON(t, ts.URL+"/recommend?property=distance", &resp)

	m := srv.Metrics()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("recommend", "200")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.catalogParts.WithLabelValues("sensor")))

	out, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer out.Body.Close()
	body, _ := io.ReadAll(out.Body)
	assert.Contains(t, string(body), "partkb_http_requests_total")
	assert.Contains(t, string(body), "partkb_recommend_matches_count 2")
	assert.Contains(t, string(body), `partkb_recommend_stage_remaining_count{stage="capability"} 2`)
}

func TestSetCatalog_Swaps(t *testing.T) {
	srv, ts := newTestServer(t)

	smaller, _ := catalog.Build([]*core.RawRecord{{Label: "BME280", Category: "sensor", Kind: "env", ObservedProperty: "temperature"}})
	srv.SetCatalog(smaller)
	srv.SetCatalog(nil)

	var st StatusResponse
	getJSON(t, ts.URL+"/status", &st)
	assert.Equal(t, 1, st.Parts)
	assert.Same(t, smaller, srv.Catalog())
}

func TestWatcher_Validation(t *testing.T) {
	srv, _ := newTestServer(t)
	rebuild := func(context.Context) (*catalog.Catalog, error) { return srv.Catalog(), nil }

	_, err := NewWatcher(nil, []string{"*.csv"}, rebuild)
	assert.ErrorIs(t, err, ErrServerRequired)
	_, err = NewWatcher(srv, []string{"*.csv"}, nil)
	assert.ErrorIs(t, err, ErrRebuildRequired)
	_, err = NewWatcher(srv, nil, rebuild)
	assert.ErrorIs(t, err, ErrNoPatterns)
}

func TestWatcher_Matches(t *testing.T) {
	srv, _ := newTestServer(t)
	w, err := NewWatcher(srv, []string{"data/**/*.csv", "./extra/parts.csv"}, func(context.Context) (*catalog.Catalog, error) {
		return nil, nil
	})
	require.NoError(t, err)

	assert.True(t, w.Matches("data/a.csv"))
	assert.True(t, w.Matches("data/vendor/b.csv"))
	assert.True(t, w.Matches("extra/parts.csv"))
	assert.False(t, w.Matches("data/a.txt"))
	assert.False(t, w.Matches("extra/other.csv"))
}

func TestWatcher_RebuildKeepsCatalogOnError(t *testing.T) {
	srv, _ := newTestServer(t)
	before := srv.Catalog()

	w, err := NewWatcher(srv, []string{"*.csv"}, func(context.Context) (*catalog.Catalog, error) {
		return nil, errors.New("boom")
	})
	require.NoError(t, err)
	w.Rebuild(context.Background())

	assert.Same(t, before, srv.Catalog())
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.Metrics().rebuilds.WithLabelValues("error")))
}

func TestWatcher_RebuildsOnChange(t *testing.T) {
	srv, _ := newTestServer(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "parts.csv")
	require.NoError(t, os.WriteFile(path, []byte("part_label\n"), 0o644))

	rebuilt, _ := catalog.Build([]*core.RawRecord{{Label: "BME280", Category: "sensor", Kind: "env"}})
	w, err := NewWatcher(srv, []string{filepath.Join(dir, "*.csv")}, func(context.Context) (*catalog.Catalog, error) {
		return rebuilt, nil
	}, WithDebounce(20*time.Millisecond), WithWatcherLogger(nil))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("part_label\nBME280\n"), 0o644)
		return srv.Catalog() == rebuilt
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
	assert.GreaterOrEqual(t, testutil.ToFloat64(srv.Metrics().rebuilds.WithLabelValues("ok")), 1.0)
}
