package reference

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial_analysis/pkg/core/benchmark"
	"financial_analysis/pkg/core/calc"
	coreReference "financial_analysis/pkg/core/reference"
)

func serve(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	r := mux.NewRouter()
	NewHandler(coreReference.Default(), benchmark.Default()).Register(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestLists_UseRequestedLanguage(t *testing.T) {
	w := serve(t, "/api/sectors?lang=en")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string][]option
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	sectors := resp[coreReference.ListSectors]
	require.Len(t, sectors, len(coreReference.Default().Sectors))

	item, ok := coreReference.Default().Find(coreReference.ListSectors, sectors[0].ID)
	require.True(t, ok)
	assert.Equal(t, item.Name("en"), sectors[0].Name)

	w = serve(t, "/api/legal-entities?lang=ar")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	entities := resp[coreReference.ListLegalEntities]
	require.NotEmpty(t, entities)
	item, _ = coreReference.Default().Find(coreReference.ListLegalEntities, entities[0].ID)
	assert.Equal(t, item.Name("ar"), entities[0].Name)

	w = serve(t, "/api/comparison-levels")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp[coreReference.ListComparisonLevels])
}

func TestHandleRoster(t *testing.T) {
	w := serve(t, "/api/metrics/roster")
	require.Equal(t, http.StatusOK, w.Code)

	var resp RosterResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, calc.Total(), resp.Total)
	assert.Len(t, resp.Metrics, calc.Total())
	require.Len(t, resp.Categories, len(calc.Categories()))

	sum := 0
	for _, c := range resp.Categories {
		sum += c.Count
	}
	assert.Equal(t, resp.Total, sum)
	assert.Equal(t, calc.Roster()[0].Name, resp.Metrics[0].Name)
}

func TestHandleBenchmarks(t *testing.T) {
	w := serve(t, "/api/benchmarks?sector=banking")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Sector     string             `json:"sector"`
		Benchmarks map[string]float64 `json:"benchmarks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "banking", resp.Sector)
	assert.Equal(t, 6.0, resp.Benchmarks["debt_to_equity"])
	assert.Equal(t, 1.1, resp.Benchmarks["current_ratio"])
	assert.Equal(t, 25.0, resp.Benchmarks["gross_profit_margin"], "falls back to defaults")

	w = serve(t, "/api/benchmarks?sector=astrology")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
