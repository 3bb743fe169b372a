package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"financeio-server/src/config"
	database "financeio-server/src/db"
	"financeio-server/src/journey"
	"financeio-server/src/lta"
	"financeio-server/src/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMRTIndex = `<mrtTripFareCalc>
	<mrtStop value="NS1_1">Jurong East</mrtStop>
	<mrtStop value="EW13_2">City Hall</mrtStop>
	<mrtStop value="EW2_3">Tampines</mrtStop>
</mrtTripFareCalc>`

const testBusIndex = `<busTripFareCalc>
	<bus id="10">
		<direction>
			<description>Kent Ridge Ter - Tampines Int</description>
			<busStop id="16009_1_1">Kent Ridge Ter</busStop>
			<busStop id="16119_2_2">NUH</busStop>
		</direction>
	</bus>
</busTripFareCalc>`

// fakeLTA serves the index files and prices every leg at 100 cents plus the
// number of legs already on the trip token.
func fakeLTA(t *testing.T, fail bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
			return
		}
		switch r.URL.Path {
		case "/mrtTripIndex.xml":
			io.WriteString(w, testMRTIndex)
		case "/busTripIndex.xml":
			io.WriteString(w, testBusIndex)
		case "/mrtFareCalc", "/busFareCalc":
			assert.NoError(t, r.ParseForm())
			legs := strings.Count(r.PostForm.Get("tripInfo"), "|")
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"fare":"%d","tripInfo":"%s|","addTripInfo":"%d"}`, 100+legs, r.PostForm.Get("tripInfo"), legs+1)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTravelRouter(t *testing.T, fail bool) http.Handler {
	t.Helper()
	srv := fakeLTA(t, fail)
	cache, err := database.NewIndexCache(time.Hour)
	require.NoError(t, err)
	t.Cleanup(cache.Close)

	client := lta.NewClient(config.LTAConfig{
		BaseURL:    srv.URL,
		MRTFareURL: srv.URL + "/mrtFareCalc",
		BusFareURL: srv.URL + "/busFareCalc",
		Timeout:    2 * time.Second,
	}, cache)

	r := chi.NewRouter()
	r.Get("/travel/mrt", GetStations(client))
	r.Get("/travel/bus", GetBuses(client))
	r.Post("/travel/mrt/fare", GetFare(client, models.ModeMRT))
	r.Post("/travel/bus/fare", GetFare(client, models.ModeBus))
	r.Post("/travel/journey", PriceJourney(client))
	r.Delete("/travel/cache", ClearTravelCache(cache))
	return r
}

func TestGetStations(t *testing.T) {
	h := newTravelRouter(t, false)
	rec := do(h, http.MethodGet, "/travel/mrt", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"code":"NS1","name":"Jurong East"},{"code":"EW13","name":"City Hall"},{"code":"EW2","name":"Tampines"}]`, rec.Body.String())

	rec = do(h, http.MethodDelete, "/travel/cache", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody[map[string]any](t, rec)["cleared"])
}

func TestGetBuses_Shape(t *testing.T) {
	h := newTravelRouter(t, false)
	rec := do(h, http.MethodGet, "/travel/bus", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var buses [][]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &buses))
	require.Len(t, buses, 1)
	require.Len(t, buses[0], 2)
	assert.JSONEq(t, `"10"`, string(buses[0][0]))
}

func TestTravel_UpstreamFailure(t *testing.T) {
	h := newTravelRouter(t, true)
	for _, path := range []string{"/travel/mrt", "/travel/bus"} {
		rec := do(h, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
	}

	form := url.Values{"from": {"NS1"}, "to": {"EW13"}, "fare": {"30"}}
	req := httptest.NewRequest(http.MethodPost, "/travel/mrt/fare", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetFare_RelaysUpstream(t *testing.T) {
	h := newTravelRouter(t, false)

	form := url.Values{
		"fare": {"30"}, "from": {"16009"}, "to": {"16119"},
		"tripInfo": {journey.InitialTripInfo}, "addTripInfo": {"0"}, "bus": {"10"},
	}
	req := httptest.NewRequest(http.MethodPost, "/travel/bus/fare", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"fare":"100","tripInfo":"`+journey.InitialTripInfo+`|","addTripInfo":"1"}`, rec.Body.String())

	// JSON bodies are accepted too
	rec = do(h, http.MethodPost, "/travel/mrt/fare", "", `{"fare":"30","from":"NS1","to":"EW13","tripInfo":"x","addTripInfo":"0"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodPost, "/travel/mrt/fare", "", `{"fare":"30","from":"NS1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPriceJourney(t *testing.T) {
	h := newTravelRouter(t, false)

	rec := do(h, http.MethodPost, "/travel/journey", "", `{"legs":[
		{"mode":"MRT","from":"NS1","to":"EW13"},
		{"mode":"Bus","from":"16009","to":"16119","bus":"10"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		TotalFare   float64 `json:"totalFare"`
		Description string  `json:"description"`
		Trips       []any   `json:"trips"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	// first leg 1.00, second leg priced after one replayed leg: 1.01
	assert.Equal(t, 2.01, res.TotalFare)
	assert.Equal(t, "MRT: Jurong East - City Hall, Bus 10: Kent Ridge Ter - NUH", res.Description)
	assert.Len(t, res.Trips, 2)
}

func TestPriceJourney_Errors(t *testing.T) {
	h := newTravelRouter(t, false)

	rec := do(h, http.MethodPost, "/travel/journey", "", `{"legs":[
		{"mode":"MRT","from":"NS1","to":"EW13"},
		{"mode":"MRT","from":"EW13","to":"EW2"}]}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, float64(1), decodeBody[map[string]any](t, rec)["leg"])

	legs := strings.Repeat(`{"mode":"MRT","from":"A","to":"B"},`, journey.MaxLegs+1)
	rec = do(h, http.MethodPost, "/travel/journey", "", `{"legs":[`+strings.TrimSuffix(legs, ",")+`]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPost, "/travel/journey", "", `{"legs":[{"mode":"Ferry","from":"A","to":"B"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPost, "/travel/journey", "", `{"legs":[{"mode":"Bus","from":"A","to":"B"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPost, "/travel/journey", "", `{"legs":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
