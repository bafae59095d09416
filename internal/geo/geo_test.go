package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const geocodePayload = `{
	"status": "OK",
	"results": [
		{
			"address_components": [
				{"long_name": "Tondo", "types": ["sublocality_level_1", "sublocality", "political"]},
				{"long_name": "Manila", "types": ["locality", "political"]},
				{"long_name": "Metro Manila", "types": ["administrative_area_level_1", "political"]},
				{"long_name": "Philippines", "types": ["country", "political"]}
			]
		}
	]
}`

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, "test-key", zap.NewNop().Sugar())
}

func TestReverseGeocode(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.NotEmpty(t, r.URL.Query().Get("latlng"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(geocodePayload))
	})

	city, barangay, err := client.ReverseGeocode(context.Background(), 14.6170, 120.9670)
	require.NoError(t, err)
	assert.Equal(t, "Manila", city)
	assert.Equal(t, "Tondo", barangay)
}

func TestReverseGeocodeZeroResults(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	})

	_, _, err := client.ReverseGeocode(context.Background(), 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ZERO_RESULTS")
}

func TestReverseGeocodeHTTPError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, _, err := client.ReverseGeocode(context.Background(), 14.6, 120.98)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestReverseGeocodeNoAPIKey(t *testing.T) {
	client := NewClient("http://unused", "", zap.NewNop().Sugar())

	_, _, err := client.ReverseGeocode(context.Background(), 14.6, 120.98)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestDirectionsURL(t *testing.T) {
	url := DirectionsURL(14.5995, 120.9842, 14.6170, 120.9670)
	assert.Equal(t, "https://www.google.com/maps/dir/14.599500,120.984200/14.617000,120.967000", url)
}

func TestDirectionsAndQR(t *testing.T) {
	client := NewClient("http://unused", "test-key", zap.NewNop().Sugar())

	mapsURL, qrDataURL, err := client.DirectionsAndQR(14.5995, 120.9842, 14.6170, 120.9670)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(mapsURL, "https://www.google.com/maps/dir/"))
	assert.True(t, strings.HasPrefix(qrDataURL, "data:image/png;base64,"))
	assert.Greater(t, len(qrDataURL), len("data:image/png;base64,"))
}

func TestDirectionsAndQRNoAPIKey(t *testing.T) {
	client := NewClient("http://unused", "", zap.NewNop().Sugar())

	_, _, err := client.DirectionsAndQR(0, 0, 1, 1)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}
