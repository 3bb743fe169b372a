package lta

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"financeio-server/src/config"
	database "financeio-server/src/db"
	"financeio-server/src/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mrtXML = `<?xml version="1.0" encoding="UTF-8"?>
<mrtTripFareCalc>
	<mrtStop value="NS1_EW24_1">Jurong East</mrtStop>
	<mrtStop value="EW13_NS25_2">City Hall</mrtStop>
</mrtTripFareCalc>`

const busXML = `<?xml version="1.0" encoding="UTF-8"?>
<busTripFareCalc>
	<bus id="10">
		<direction>
			<description>Kent Ridge Ter - Tampines Int</description>
			<busStop id="16009_1_1">Kent Ridge Ter</busStop>
			<busStop id="16119_2_2">NUH</busStop>
		</direction>
		<direction>
			<description>Tampines Int - Kent Ridge Ter</description>
			<busStop id="75009_1_1">Tampines Int</busStop>
		</direction>
	</bus>
</busTripFareCalc>`

func newTestClient(t *testing.T, h http.Handler, cache *database.IndexCache) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(config.LTAConfig{
		BaseURL:    srv.URL,
		MRTFareURL: srv.URL + "/mrtFareCalc",
		BusFareURL: srv.URL + "/busFareCalc",
		Timeout:    2 * time.Second,
	}, cache)
}

func TestParseStations(t *testing.T) {
	stations, err := ParseStations([]byte(mrtXML))
	require.NoError(t, err)
	assert.Equal(t, []models.Station{
		{Code: "NS1", Name: "Jurong East"},
		{Code: "EW13", Name: "City Hall"},
	}, stations)
}

func TestParseStations_UnexpectedShape(t *testing.T) {
	_, err := ParseStations([]byte(`<other><mrtStop value="A_1">A</mrtStop></other>`))
	assert.Error(t, err)

	_, err = ParseStations([]byte(`<mrtTripFareCalc></mrtTripFareCalc>`))
	assert.ErrorIs(t, err, ErrUnexpectedShape)

	_, err = ParseStations([]byte(`<html><body>maintenance`))
	assert.Error(t, err)
}

func TestParseBuses(t *testing.T) {
	buses, err := ParseBuses([]byte(busXML))
	require.NoError(t, err)
	require.Len(t, buses, 1)
	assert.Equal(t, "10", buses[0].ID)
	require.Len(t, buses[0].Routes, 2)
	assert.Equal(t, "Kent Ridge Ter - Tampines Int", buses[0].Routes[0].Description)
	assert.Equal(t, models.BusStop{ID: "16119", Code: "2", Order: "2", Name: "NUH"}, buses[0].Routes[0].BusStops[1])
}

func TestParseBuses_MissingDirection(t *testing.T) {
	_, err := ParseBuses([]byte(`<busTripFareCalc><bus id="10"></bus></busTripFareCalc>`))
	assert.ErrorIs(t, err, ErrUnexpectedShape)
}

func TestClient_StationsCached(t *testing.T) {
	var hits atomic.Int32
	cache, err := database.NewIndexCache(time.Hour)
	require.NoError(t, err)
	defer cache.Close()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mrtTripIndex.xml", r.URL.Path)
		hits.Add(1)
		w.Write([]byte(mrtXML))
	}), cache)

	for i := 0; i < 3; i++ {
		stations, err := c.Stations(context.Background())
		require.NoError(t, err)
		assert.Len(t, stations, 2)
	}
	assert.Equal(t, int32(1), hits.Load())

	cache.Clear()
	_, err = c.Stations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_UpstreamError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}), nil)

	_, err := c.Buses(context.Background())
	assert.Error(t, err)
}

func TestClient_ForwardRelaysBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/busFareCalc", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "30", r.PostForm.Get("fare"))
		assert.Equal(t, "10", r.PostForm.Get("bus"))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		io.WriteString(w, `{"fare":"92","tripInfo":"next","addTripInfo":"1"}`)
	}), nil)

	relay, err := c.Forward(context.Background(), models.ModeBus, FareForm(models.FareRequest{
		Fare: "30", From: "16009", To: "16119", TripInfo: "t", AddTripInfo: "0", Bus: "10",
	}))
	require.NoError(t, err)
	assert.Equal(t, "application/json; charset=utf-8", relay.ContentType)
	assert.JSONEq(t, `{"fare":"92","tripInfo":"next","addTripInfo":"1"}`, string(relay.Body))
}

func TestClient_Quote(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mrtFareCalc", r.URL.Path)
		io.WriteString(w, `{"fare":"157"}`)
	}), nil)

	q, err := c.Quote(context.Background(), models.ModeMRT, models.FareRequest{
		Fare: "30", From: "NS1", To: "EW13", TripInfo: "prev", AddTripInfo: "0",
	})
	require.NoError(t, err)
	assert.True(t, q.Fare.Equal(decimal.RequireFromString("1.57")))
	assert.Equal(t, "prev", q.TripInfo)
	assert.Equal(t, "0", q.AddTripInfo)
}

func TestParseFare(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"string cents", `{"fare":"250"}`, "2.5", false},
		{"numeric cents", `{"fare":92}`, "0.92", false},
		{"fractional cents truncate", `{"fare":"150.9"}`, "1.5", false},
		{"missing fare", `{"tripInfo":"x"}`, "", true},
		{"not a number", `{"fare":"n/a"}`, "", true},
		{"html", `<html></html>`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseFare([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, q.Fare.Equal(decimal.RequireFromString(tt.want)), "got %s", q.Fare)
		})
	}
}
