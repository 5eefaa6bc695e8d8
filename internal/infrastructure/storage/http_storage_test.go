package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"media-pipeline/internal/domain/repositories"
	"media-pipeline/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayload() *repositories.TransferPayload {
	return &repositories.TransferPayload{
		Key:         "abc_photo.png",
		Filename:    "photo.png",
		ContentType: "image/png",
		Token:       "tok",
		Original:    []byte("original-bytes"),
		Thumbnail:   []byte("thumb-bytes"),
		Preview:     []byte("preview-bytes"),
		Metadata:    []byte(`{"media_type":"image"}`),
	}
}

func TestHTTPStorageTransfer(t *testing.T) {
	var gotParts map[string][]byte
	var gotMetadata string
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		require.NoError(t, r.ParseMultipartForm(32<<20))

		gotParts = make(map[string][]byte)
		for _, field := range []string{"original", "thumbnail", "preview"} {
			f, _, err := r.FormFile(field)
			require.NoError(t, err, field)
			data, err := io.ReadAll(f)
			require.NoError(t, err)
			f.Close()
			gotParts[field] = data
		}
		gotMetadata = r.FormValue("metadata")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"key": "server-key", "url": "https://cdn/server-key"})
	}))
	defer server.Close()

	s := NewHTTPStorage(config.EndpointConfig{UploadURL: server.URL, MediaBaseURL: server.URL})

	var lastSent, lastTotal int64
	result, err := s.Transfer(context.Background(), testPayload(), func(sent, total int64) {
		assert.GreaterOrEqual(t, sent, lastSent)
		lastSent, lastTotal = sent, total
	})
	require.NoError(t, err)

	// Sunucunun verdiği key kullanılır
	assert.Equal(t, "server-key", result.Key)
	assert.Equal(t, "https://cdn/server-key", result.URL)

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, []byte("original-bytes"), gotParts["original"])
	assert.Equal(t, []byte("thumb-bytes"), gotParts["thumbnail"])
	assert.Equal(t, []byte("preview-bytes"), gotParts["preview"])
	assert.JSONEq(t, `{"media_type":"image"}`, gotMetadata)

	// Progress gövdenin tamamına ulaşmış olmalı
	assert.Equal(t, lastTotal, lastSent)
	assert.Greater(t, lastTotal, int64(0))
}

func TestHTTPStorageTransferNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := NewHTTPStorage(config.EndpointConfig{UploadURL: server.URL, MediaBaseURL: server.URL})

	_, err := s.Transfer(context.Background(), testPayload(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestHTTPStorageTransferMissingKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	s := NewHTTPStorage(config.EndpointConfig{UploadURL: server.URL, MediaBaseURL: server.URL})

	_, err := s.Transfer(context.Background(), testPayload(), nil)
	assert.Error(t, err)
}

func TestHTTPStorageExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		if r.URL.Path == "/media/present-key" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	s := NewHTTPStorage(config.EndpointConfig{UploadURL: server.URL, MediaBaseURL: server.URL})

	assert.True(t, s.Exists(context.Background(), "present-key"))
	assert.False(t, s.Exists(context.Background(), "absent-key"))
}
