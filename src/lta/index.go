package lta

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"financeio-server/src/models"
)

type mrtIndex struct {
	XMLName xml.Name  `xml:"mrtTripFareCalc"`
	Stops   []mrtStop `xml:"mrtStop"`
}

type mrtStop struct {
	Value string `xml:"value,attr"`
	Name  string `xml:",chardata"`
}

type busIndex struct {
	XMLName xml.Name   `xml:"busTripFareCalc"`
	Buses   []busEntry `xml:"bus"`
}

type busEntry struct {
	ID         string         `xml:"id,attr"`
	Directions []busDirection `xml:"direction"`
}

type busDirection struct {
	Description *string   `xml:"description"`
	Stops       []busStop `xml:"busStop"`
}

type busStop struct {
	ID   string `xml:"id,attr"`
	Name string `xml:",chardata"`
}

// ErrUnexpectedShape is returned when an index document parses as XML but
// is missing the elements the proxy depends on.
var ErrUnexpectedShape = errors.New("unexpected index shape")

// ParseStations reads mrtTripIndex.xml. The station code is the part of the
// value attribute before the first underscore.
func ParseStations(data []byte) ([]models.Station, error) {
	var idx mrtIndex
	if err := xml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("decode mrt index: %w", err)
	}
	if len(idx.Stops) == 0 {
		return nil, fmt.Errorf("%w: no mrtStop elements", ErrUnexpectedShape)
	}

	stations := make([]models.Station, 0, len(idx.Stops))
	for _, s := range idx.Stops {
		code, _, _ := strings.Cut(s.Value, "_")
		stations = append(stations, models.Station{Code: code, Name: strings.TrimSpace(s.Name)})
	}
	return stations, nil
}

// ParseBuses reads busTripIndex.xml. Each busStop id attribute has the form
// id_code_order.
func ParseBuses(data []byte) ([]models.Bus, error) {
	var idx busIndex
	if err := xml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("decode bus index: %w", err)
	}
	if len(idx.Buses) == 0 {
		return nil, fmt.Errorf("%w: no bus elements", ErrUnexpectedShape)
	}

	buses := make([]models.Bus, 0, len(idx.Buses))
	for _, b := range idx.Buses {
		if len(b.Directions) == 0 {
			return nil, fmt.Errorf("%w: bus %s has no direction", ErrUnexpectedShape, b.ID)
		}
		bus := models.Bus{ID: b.ID, Routes: make([]models.BusRoute, 0, len(b.Directions))}
		for _, d := range b.Directions {
			if d.Description == nil || len(d.Stops) == 0 {
				return nil, fmt.Errorf("%w: bus %s has an incomplete direction", ErrUnexpectedShape, b.ID)
			}
			route := models.BusRoute{Description: strings.TrimSpace(*d.Description), BusStops: make([]models.BusStop, 0, len(d.Stops))}
			for _, s := range d.Stops {
				parts := strings.SplitN(s.ID, "_", 4)
				stop := models.BusStop{ID: parts[0], Name: strings.TrimSpace(s.Name)}
				if len(parts) > 1 {
					stop.Code = parts[1]
				}
				if len(parts) > 2 {
					stop.Order = parts[2]
				}
				route.BusStops = append(route.BusStops, stop)
			}
			bus.Routes = append(bus.Routes, route)
		}
		buses = append(buses, bus)
	}
	return buses, nil
}
