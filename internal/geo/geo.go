// Package geo wraps the Google Maps APIs used by the report pipeline:
// reverse geocoding of incident coordinates and directions deep links
// with an embeddable QR code.
package geo

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// ErrNoAPIKey is returned when an operation needs the Maps key and it
// was never configured.
var ErrNoAPIKey = fmt.Errorf("google maps API key is not configured")

// Client calls the Google Maps geocoding API.
type Client struct {
	http   *resty.Client
	apiKey string
	logger *zap.SugaredLogger
}

// NewClient creates a geocoding client. baseURL is overridable for tests;
// pass "https://maps.googleapis.com" in production.
func NewClient(baseURL, apiKey string, logger *zap.SugaredLogger) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second).
		SetHeader("Accept", "application/json")

	return &Client{http: http, apiKey: apiKey, logger: logger}
}

type geocodeResponse struct {
	Results []geocodeResult `json:"results"`
	Status  string          `json:"status"`
}

type geocodeResult struct {
	AddressComponents []addressComponent `json:"address_components"`
}

type addressComponent struct {
	LongName string   `json:"long_name"`
	Types    []string `json:"types"`
}

// ReverseGeocode converts coordinates into (city, barangay) names.
// Either value may be empty when Google has no matching component.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (city, barangay string, err error) {
	if c.apiKey == "" {
		return "", "", ErrNoAPIKey
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("latlng", fmt.Sprintf("%f,%f", lat, lng)).
		SetQueryParam("key", c.apiKey).
		Get("/maps/api/geocode/json")
	if err != nil {
		return "", "", fmt.Errorf("geocoding request: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", "", fmt.Errorf("geocoding API returned HTTP %d", resp.StatusCode())
	}

	var geoResp geocodeResponse
	if err := json.Unmarshal(resp.Body(), &geoResp); err != nil {
		return "", "", fmt.Errorf("decoding geocode response: %w", err)
	}
	if geoResp.Status != "OK" {
		return "", "", fmt.Errorf("geocoding failed: status=%s", geoResp.Status)
	}

	// Google returns results from most to least specific; take the first
	// component of each kind across all results. Philippine addressing:
	// locality = city, sublocality_level_1 = barangay.
	for _, result := range geoResp.Results {
		for _, comp := range result.AddressComponents {
			for _, t := range comp.Types {
				switch {
				case city == "" && (t == "locality" || t == "administrative_area_level_2"):
					city = comp.LongName
				case barangay == "" && (t == "sublocality_level_1" || t == "neighborhood"):
					barangay = comp.LongName
				}
			}
		}
		if city != "" && barangay != "" {
			break
		}
	}

	return city, barangay, nil
}

// DirectionsURL builds a Google Maps turn-by-turn deep link from the
// office location to the incident location.
func DirectionsURL(startLat, startLng, endLat, endLng float64) string {
	return fmt.Sprintf("https://www.google.com/maps/dir/%f,%f/%f,%f", startLat, startLng, endLat, endLng)
}

// DirectionsAndQR returns the maps deep link plus a PNG QR code encoding
// it, as a base64 data URL ready for an <img> tag.
func (c *Client) DirectionsAndQR(startLat, startLng, endLat, endLng float64) (mapsURL, qrDataURL string, err error) {
	if c.apiKey == "" {
		return "", "", ErrNoAPIKey
	}

	mapsURL = DirectionsURL(startLat, startLng, endLat, endLng)

	png, err := qrcode.Encode(mapsURL, qrcode.Low, 256)
	if err != nil {
		return "", "", fmt.Errorf("encoding QR code: %w", err)
	}

	qrDataURL = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	return mapsURL, qrDataURL, nil
}
