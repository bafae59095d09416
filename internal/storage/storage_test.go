package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewClientDisabled(t *testing.T) {
	assert.Nil(t, NewClient("", "key", "crash-media", zap.NewNop().Sugar()))
}

func TestUpload(t *testing.T) {
	var gotPath, gotAuth, gotContentType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "service-key", "crash-media", zap.NewNop().Sugar())
	require.NotNil(t, client)

	url, err := client.Upload(context.Background(), "reports/r1/m1.jpg", "image/jpeg", []byte("fake-jpeg"))
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/crash-media/reports/r1/m1.jpg", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "image/jpeg", gotContentType)
	assert.Equal(t, []byte("fake-jpeg"), gotBody)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/crash-media/reports/r1/m1.jpg", url)
}

func TestUploadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "service-key", "crash-media", zap.NewNop().Sugar())

	_, err := client.Upload(context.Background(), "reports/r1/m1.jpg", "image/jpeg", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
