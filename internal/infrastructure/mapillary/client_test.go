package mapillary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/streetsmart-service/internal/config"
	"github.com/streetsmart-service/internal/domain"
)

var testBBox = domain.BoundingBox{MinLon: -84.64, MinLat: 39.045, MaxLon: -84.45, MaxLat: 39.17}

func newTestClient(baseURL string, timeout time.Duration) *client {
	return NewMapillaryClient(&config.MapillaryConfig{
		BaseURL:        baseURL,
		RequestTimeout: timeout,
	}, zap.NewNop()).(*client)
}

func TestClient_Images(t *testing.T) {
	t.Run("successful request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/images", r.URL.Path)
			q := r.URL.Query()
			assert.Equal(t, "MLY|token", q.Get("access_token"))
			assert.Equal(t, "id,geometry", q.Get("fields"))
			assert.Equal(t, "-84.64,39.045,-84.45,39.17", q.Get("bbox"))
			assert.Equal(t, "400", q.Get("limit"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":[
				{"id":"111","geometry":{"type":"Point","coordinates":[-84.51,39.10]}},
				{"id":222,"geometry":{"type":"Point","coordinates":[-84.52,39.11]}},
				{"id":"333","geometry":{"type":"Point","coordinates":[-84.53]}},
				{"geometry":{"type":"Point","coordinates":[-84.54,39.12]}},
				{"id":"555"}
			]}`))
		}))
		defer server.Close()

		points, err := newTestClient(server.URL, 5*time.Second).Images(context.Background(), testBBox, "MLY|token", 400)
		require.NoError(t, err)
		require.Len(t, points, 2)
		assert.Equal(t, domain.StreetImagePoint{ID: "111", Lat: 39.10, Lon: -84.51}, points[0])
		assert.Equal(t, "222", points[1].ID)
	})

	t.Run("error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token"}}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL, 5*time.Second).Images(context.Background(), testBBox, "bad", 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("invalid json", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL, 5*time.Second).Images(context.Background(), testBBox, "t", 10)
		assert.Error(t, err)
	})

	t.Run("timeout does not leak the token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL, 50*time.Millisecond).Images(context.Background(), testBBox, "secret-token", 10)
		require.Error(t, err)
		assert.False(t, strings.Contains(err.Error(), "secret-token"))
	})
}
