package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"mime"
	"net/http"
	"strings"

	database "financeio-server/src/db"
	"financeio-server/src/journey"
	"financeio-server/src/lta"
	"financeio-server/src/models"
)

func GetStations(client *lta.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stations, err := client.Stations(r.Context())
		if err != nil {
			log.Printf("ERROR: Failed to load MRT index: %v", err)
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, stations)
	}
}

func GetBuses(client *lta.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buses, err := client.Buses(r.Context())
		if err != nil {
			log.Printf("ERROR: Failed to load bus index: %v", err)
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, buses)
	}
}

// ClearTravelCache drops the cached station and bus indexes.
func ClearTravelCache(cache *database.IndexCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := cache.Clear()
		log.Printf("INFO: Travel index cache cleared - Entries: %d", n)
		writeJSON(w, http.StatusOK, map[string]any{"message": "travel cache cleared", "cleared": n})
	}
}

// readFareRequest accepts a JSON or form-encoded fare request.
func readFareRequest(r *http.Request) (models.FareRequest, error) {
	var fr models.FareRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&fr); err != nil {
			return fr, err
		}
		return fr, nil
	}
	if err := r.ParseForm(); err != nil {
		return fr, err
	}
	fr = models.FareRequest{
		Fare:        r.PostForm.Get("fare"),
		From:        r.PostForm.Get("from"),
		To:          r.PostForm.Get("to"),
		TripInfo:    r.PostForm.Get("tripInfo"),
		AddTripInfo: r.PostForm.Get("addTripInfo"),
		Bus:         r.PostForm.Get("bus"),
	}
	return fr, nil
}

// GetFare forwards a fare request upstream and relays the answer untouched.
func GetFare(client *lta.Client, mode models.TransportMode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fr, err := readFareRequest(r)
		if err != nil {
			log.Printf("ERROR: Failed to read %s fare request: %v", mode, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if fr.From == "" || fr.To == "" {
			http.Error(w, "from and to are required", http.StatusBadRequest)
			return
		}

		relay, err := client.Forward(r.Context(), mode, lta.FareForm(fr))
		if err != nil {
			log.Printf("ERROR: %s fare request %s -> %s failed: %v", mode, fr.From, fr.To, err)
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}
		if relay.ContentType != "" {
			w.Header().Set("Content-Type", relay.ContentType)
		}
		w.WriteHeader(relay.StatusCode)
		w.Write(relay.Body)
	}
}

type journeyRequest struct {
	Legs []struct {
		Mode string `json:"mode"`
		From string `json:"from"`
		To   string `json:"to"`
		Bus  string `json:"bus"`
	} `json:"legs"`
}

// PriceJourney prices a whole multi-leg journey in one call.
func PriceJourney(client *lta.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req journeyRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if len(req.Legs) > journey.MaxLegs {
			http.Error(w, journey.ErrTooManyLegs.Error(), http.StatusBadRequest)
			return
		}

		legs := make([]journey.Leg, 0, len(req.Legs))
		for _, l := range req.Legs {
			mode, err := models.ParseMode(l.Mode)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			legs = append(legs, journey.Leg{Mode: mode, From: l.From, To: l.To, Bus: l.Bus})
		}
		nameLegs(r, client, legs)

		res, err := journey.Run(r.Context(), client, legs)
		var legErr *journey.LegError
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, res)
		case errors.Is(err, journey.ErrReentry) && errors.As(err, &legErr):
			writeJSON(w, http.StatusConflict, map[string]any{"error": "re-entry is not a through journey", "leg": legErr.Index})
		case errors.Is(err, journey.ErrInvalidLeg), errors.Is(err, journey.ErrEmptyJourney), errors.Is(err, journey.ErrTooManyLegs):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Printf("ERROR: Failed to price journey: %v", err)
			http.Error(w, "server error", http.StatusInternalServerError)
		}
	}
}

// nameLegs fills display names from the indexes. Legs keep their codes when
// an index cannot be loaded.
func nameLegs(r *http.Request, client *lta.Client, legs []journey.Leg) {
	var stations map[string]string
	var stops map[string]map[string]string
	for i := range legs {
		leg := &legs[i]
		switch leg.Mode {
		case models.ModeMRT:
			if stations == nil {
				stations = map[string]string{}
				list, err := client.Stations(r.Context())
				if err != nil {
					log.Printf("ERROR: Failed to load MRT index for journey names: %v", err)
				}
				for _, s := range list {
					stations[s.Code] = s.Name
				}
			}
			leg.FromName, leg.ToName = stations[leg.From], stations[leg.To]
		case models.ModeBus:
			if stops == nil {
				stops = map[string]map[string]string{}
				buses, err := client.Buses(r.Context())
				if err != nil {
					log.Printf("ERROR: Failed to load bus index for journey names: %v", err)
				}
				for _, b := range buses {
					names := map[string]string{}
					for _, route := range b.Routes {
						for _, s := range route.BusStops {
							names[s.ID] = s.Name
						}
					}
					stops[strings.ToUpper(b.ID)] = names
				}
			}
			names := stops[strings.ToUpper(leg.Bus)]
			leg.FromName, leg.ToName = names[leg.From], names[leg.To]
		}
	}
}
