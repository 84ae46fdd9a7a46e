package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/valuation-cli/internal/config"
	"github.com/sells-group/valuation-cli/internal/extract"
	"github.com/sells-group/valuation-cli/internal/model"
	"github.com/sells-group/valuation-cli/internal/refdata"
	"github.com/sells-group/valuation-cli/internal/store"
	"github.com/sells-group/valuation-cli/pkg/geocode"
)

// newTestServer wires an apiServer against a throwaway SQLite store and sets
// the package-level config the handlers read.
func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()

	cfg = &config.Config{
		Valuation: config.ValuationConfig{},
		Analyze:   config.AnalyzeConfig{GeocodeConcurrency: 2},
	}

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	manufacturers := refdata.DefaultManufacturers()
	api := &apiServer{
		store:         st,
		manufacturers: manufacturers,
		extractor:     extract.New(manufacturers),
		newGeocoder:   func() (*geocode.Service, error) { return geocode.NewService(), nil },
	}

	srv := httptest.NewServer(api.routes())
	t.Cleanup(srv.Close)
	return srv, st
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestServe_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestServe_Extract(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/extract", map[string]string{
		"text":   "2020 Honda Accord | 4D Sedan\nVIN: 1HGBH41JXMN109186\nOdometer: 42,000\n",
		"method": "ocr",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	vehicle := decodeBody[model.Vehicle](t, resp)
	assert.Equal(t, "1HGBH41JXMN109186", vehicle.VIN)
	assert.Equal(t, 2020, vehicle.Year)
	assert.Equal(t, "Honda", vehicle.Make)
	assert.Equal(t, model.MethodOCR, vehicle.ExtractionMethod)
}

func TestServe_Extract_NotReportText(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/extract", map[string]string{"text": ""})
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestServe_Validate(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/validate", map[string]any{
		"vin":  "1HGBH41JXMN109186",
		"year": 2018,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	results := decodeBody[map[string]model.ValidationResult](t, resp)
	require.Contains(t, results, "vin")
	assert.True(t, results["vin"].IsValid)
}

func TestServe_Geocode(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/geocode", map[string]string{"location": "Chicago, IL"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	coords := decodeBody[geocode.Coordinates](t, resp)
	assert.InDelta(t, 41.88, coords.Latitude, 0.5)

	resp = postJSON(t, srv.URL+"/api/geocode", map[string]string{"location": "Nowhereville, ZZ"})
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServe_Score(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/score", map[string]any{
		"vehicle": model.Vehicle{Year: 2018, Mileage: 50000},
		"comparables": []model.Comparable{
			{Year: 2018, Mileage: 48000, ListPrice: 21000},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	breakdowns := decodeBody[[]model.QualityBreakdown](t, resp)
	require.Len(t, breakdowns, 1)
	// Same year and close mileage: base plus the mileage bonus.
	assert.InDelta(t, 110.0, breakdowns[0].FinalScore, 0.001)

	resp = postJSON(t, srv.URL+"/api/score", map[string]any{"vehicle": model.Vehicle{}})
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestServe_AppraisalLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/appraisals/", model.Vehicle{
		VIN: "1HGBH41JXMN109186", Year: 2018, Make: "Honda", Model: "Accord",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[model.Appraisal](t, resp)
	require.NotEmpty(t, created.ID)

	resp, err := http.Get(srv.URL + "/api/appraisals/" + created.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[model.Appraisal](t, resp)
	assert.Equal(t, "1HGBH41JXMN109186", got.Vehicle.VIN)

	resp, err = http.Get(srv.URL + "/api/appraisals/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[[]model.Appraisal](t, resp)
	assert.Len(t, list, 1)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/appraisals/"+created.ID, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/appraisals/" + created.ID)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServe_AddComparable_Validation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/appraisals/nonexistent/comparables", model.Comparable{ListPrice: 20000})
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	created := decodeBody[model.Appraisal](t, postJSON(t, srv.URL+"/api/appraisals/", model.Vehicle{Make: "Honda"}))

	resp = postJSON(t, fmt.Sprintf("%s/api/appraisals/%s/comparables", srv.URL, created.ID), model.Comparable{})
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServe_AnalyzeEndToEnd(t *testing.T) {
	srv, _ := newTestServer(t)

	appraisal := decodeBody[model.Appraisal](t, postJSON(t, srv.URL+"/api/appraisals/", model.Vehicle{
		VIN:      "1HGBH41JXMN109186",
		Year:     2018,
		Make:     "Honda",
		Model:    "Accord",
		Mileage:  50000,
		Location: "Chicago, IL",
	}))

	compsURL := fmt.Sprintf("%s/api/appraisals/%s/comparables", srv.URL, appraisal.ID)
	for _, comp := range []model.Comparable{
		{Year: 2018, Mileage: 48000, Location: "Milwaukee, WI", ListPrice: 21000},
		{Year: 2017, Mileage: 62000, Location: "Indianapolis, IN", ListPrice: 19000},
	} {
		resp := postJSON(t, compsURL, comp)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close() //nolint:errcheck
	}

	resp := postJSON(t, fmt.Sprintf("%s/api/appraisals/%s/analyze", srv.URL, appraisal.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	analysis := decodeBody[model.MarketAnalysis](t, resp)

	assert.Equal(t, 2, analysis.ComparablesCount)
	assert.Greater(t, analysis.CalculatedMarketValue, 0.0)
	assert.Equal(t, model.CalculationMethodWeightedAverage, analysis.CalculationMethod)

	// Analysis is persisted and the appraisal moves to complete.
	getResp, err := http.Get(srv.URL + "/api/appraisals/" + appraisal.ID)
	require.NoError(t, err)
	stored := decodeBody[model.Appraisal](t, getResp)
	assert.Equal(t, model.AppraisalStatusComplete, stored.Status)
	require.NotNil(t, stored.Analysis)

	// Comparables carry their computed scores and resolved distances.
	listResp, err := http.Get(compsURL)
	require.NoError(t, err)
	comps := decodeBody[[]model.Comparable](t, listResp)
	require.Len(t, comps, 2)
	for _, c := range comps {
		assert.Greater(t, c.QualityScore, 0.0)
		require.NotNil(t, c.DistanceFromLoss)
		assert.Greater(t, *c.DistanceFromLoss, 0.0)
	}
}

func TestServe_AnalyzeNoComparables(t *testing.T) {
	srv, _ := newTestServer(t)

	appraisal := decodeBody[model.Appraisal](t, postJSON(t, srv.URL+"/api/appraisals/", model.Vehicle{Make: "Honda"}))

	resp := postJSON(t, fmt.Sprintf("%s/api/appraisals/%s/analyze", srv.URL, appraisal.ID), nil)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestServe_DeleteComparable(t *testing.T) {
	srv, _ := newTestServer(t)

	appraisal := decodeBody[model.Appraisal](t, postJSON(t, srv.URL+"/api/appraisals/", model.Vehicle{Make: "Honda"}))
	comp := decodeBody[model.Comparable](t,
		postJSON(t, fmt.Sprintf("%s/api/appraisals/%s/comparables", srv.URL, appraisal.ID), model.Comparable{ListPrice: 20000}))

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/comparables/"+comp.ID, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	req, err = http.NewRequest(http.MethodDelete, srv.URL+"/api/comparables/"+comp.ID, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
