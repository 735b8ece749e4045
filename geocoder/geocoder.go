// Package geocoder turns free-form addresses and zipcodes into GeoJSON
// points.
package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/models"
)

const mapQuestURL = "https://www.mapquestapi.com/geocoding/v1/address"

// MapQuest queries the MapQuest geocoding API.
type MapQuest struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewMapQuest(apiKey string) *MapQuest {
	return &MapQuest{apiKey: apiKey, baseURL: mapQuestURL, client: &http.Client{Timeout: 10 * time.Second}}
}

type mapQuestResponse struct {
	Info struct {
		StatusCode int      `json:"statuscode"`
		Messages   []string `json:"messages"`
	} `json:"info"`
	Results []struct {
		Locations []struct {
			LatLng struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"latLng"`
			Street     string `json:"street"`
			City       string `json:"adminArea5"`
			State      string `json:"adminArea3"`
			Country    string `json:"adminArea1"`
			PostalCode string `json:"postalCode"`
		} `json:"locations"`
	} `json:"results"`
}

// Geocode returns nil without an error when the address resolves to nothing.
func (m *MapQuest) Geocode(ctx context.Context, address string) (*models.Location, error) {
	q := url.Values{}
	q.Set("key", m.apiKey)
	q.Set("location", address)
	q.Set("maxResults", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrGeocoder, err, "Geocoder request failed")
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.ErrGeocoder, err, "Geocoder request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errs.Wrap(errs.ErrGeocoder, fmt.Errorf("mapquest status %d", resp.StatusCode), "Geocoder request failed")
	}

	var body mapQuestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errs.Wrap(errs.ErrGeocoder, err, "Geocoder request failed")
	}
	if body.Info.StatusCode != 0 {
		return nil, errs.Wrap(errs.ErrGeocoder, fmt.Errorf("mapquest: %s", strings.Join(body.Info.Messages, "; ")), "Geocoder request failed")
	}
	if len(body.Results) == 0 || len(body.Results[0].Locations) == 0 {
		return nil, nil
	}

	l := body.Results[0].Locations[0]
	loc := &models.Location{
		Type:        "Point",
		Coordinates: []float64{l.LatLng.Lng, l.LatLng.Lat},
		Street:      l.Street,
		City:        l.City,
		State:       l.State,
		Zipcode:     l.PostalCode,
		Country:     l.Country,
	}
	loc.FormattedAddress = formatAddress(loc)
	return loc, nil
}

func formatAddress(l *models.Location) string {
	var parts []string
	for _, p := range []string{l.Street, l.City, strings.TrimSpace(l.State + " " + l.Zipcode), l.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Noop resolves nothing. Used when no provider key is configured.
type Noop struct{}

func (Noop) Geocode(ctx context.Context, address string) (*models.Location, error) {
	return nil, nil
}
