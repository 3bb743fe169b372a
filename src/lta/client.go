package lta

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"financeio-server/src/config"
	database "financeio-server/src/db"
	"financeio-server/src/models"
)

// Client talks to the LTA fare calculator. Parsed station and bus indexes
// are kept in the cache when one is given.
type Client struct {
	baseURL    string
	mrtFareURL string
	busFareURL string
	httpClient *http.Client
	cache      *database.IndexCache
}

func NewClient(cfg config.LTAConfig, cache *database.IndexCache) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		mrtFareURL: cfg.MRTFareURL,
		busFareURL: cfg.BusFareURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      cache,
	}
}

// Relay is an upstream response passed back to the caller unmodified.
type Relay struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (c *Client) Stations(ctx context.Context) ([]models.Station, error) {
	if c.cache != nil {
		if v, ok := c.cache.Get(database.StationIndexKey); ok {
			if stations, ok := v.([]models.Station); ok {
				return stations, nil
			}
		}
	}

	body, err := c.get(ctx, c.baseURL+"/mrtTripIndex.xml")
	if err != nil {
		return nil, err
	}
	stations, err := ParseStations(body)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Set(database.StationIndexKey, stations)
	}
	return stations, nil
}

func (c *Client) Buses(ctx context.Context) ([]models.Bus, error) {
	if c.cache != nil {
		if v, ok := c.cache.Get(database.BusIndexKey); ok {
			if buses, ok := v.([]models.Bus); ok {
				return buses, nil
			}
		}
	}

	body, err := c.get(ctx, c.baseURL+"/busTripIndex.xml")
	if err != nil {
		return nil, err
	}
	buses, err := ParseBuses(body)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Set(database.BusIndexKey, buses)
	}
	return buses, nil
}

// Forward posts form to the fare endpoint for mode and returns the raw
// response. Non-2xx answers are errors.
func (c *Client) Forward(ctx context.Context, mode models.TransportMode, form url.Values) (*Relay, error) {
	endpoint := c.mrtFareURL
	if mode == models.ModeBus {
		endpoint = c.busFareURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("lta: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lta: fare request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("lta: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("lta: unexpected status %d", resp.StatusCode)
	}
	return &Relay{StatusCode: resp.StatusCode, ContentType: resp.Header.Get("Content-Type"), Body: body}, nil
}

// Quote prices one leg. Tokens missing from the answer are carried over
// from the request so the chain is never broken.
func (c *Client) Quote(ctx context.Context, mode models.TransportMode, fr models.FareRequest) (models.FareQuote, error) {
	relay, err := c.Forward(ctx, mode, FareForm(fr))
	if err != nil {
		return models.FareQuote{}, err
	}
	quote, err := ParseFare(relay.Body)
	if err != nil {
		return models.FareQuote{}, err
	}
	if quote.TripInfo == "" {
		quote.TripInfo = fr.TripInfo
	}
	if quote.AddTripInfo == "" {
		quote.AddTripInfo = fr.AddTripInfo
	}
	return quote, nil
}

// FareForm encodes fr the way the upstream form expects it.
func FareForm(fr models.FareRequest) url.Values {
	form := url.Values{}
	form.Set("fare", fr.Fare)
	form.Set("from", fr.From)
	form.Set("to", fr.To)
	form.Set("tripInfo", fr.TripInfo)
	form.Set("addTripInfo", fr.AddTripInfo)
	if fr.Bus != "" {
		form.Set("bus", fr.Bus)
	}
	return form
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("lta: create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lta: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lta: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("lta: read body: %w", err)
	}
	return body, nil
}
