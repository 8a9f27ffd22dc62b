package envelope_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MikeRez0/ypfulfillment/internal/adapter/client/envelope"
	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type payload struct {
	Name string `json:"name"`
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expName  string
		expError error
	}{
		{
			name:    "data",
			body:    `{"data":{"name":"x"}}`,
			expName: "x",
		},
		{
			name:     "insufficient stock",
			body:     `{"error":{"code":"insufficient_stock","message":"only 1 left"}}`,
			expError: domain.ErrInsufficientStock,
		},
		{
			name:     "not found",
			body:     `{"error":{"code":"not_found","message":"no such product"}}`,
			expError: domain.ErrDataNotFound,
		},
		{
			name:     "empty",
			body:     `{}`,
			expError: envelope.ErrEmptyData,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := envelope.Decode[payload](strings.NewReader(test.body))
			if test.expError != nil {
				assert.ErrorIs(t, err, test.expError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expName, got.Name)
		})
	}

	_, err := envelope.Decode[payload](strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestCall(t *testing.T) {
	logger := zap.NewNop()

	t.Run("sends json and decodes", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/things", r.URL.Path)
			assert.Equal(t, "1", r.URL.Query().Get("page"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			_, _ = w.Write([]byte(`{"data":{"name":"ok"}}`))
		}))
		defer srv.Close()

		c := envelope.NewClient(srv.URL, time.Second, logger)
		got, err := envelope.Call[payload](context.Background(), c, http.MethodPost, "/things",
			map[string][]string{"page": {"1"}}, payload{Name: "in"})
		require.NoError(t, err)
		assert.Equal(t, "ok", got.Name)
	})

	t.Run("server error is unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := envelope.NewClient(srv.URL, time.Second, logger)
		_, err := envelope.Call[payload](context.Background(), c, http.MethodGet, "/", nil, nil)
		assert.ErrorIs(t, err, domain.ErrCollaboratorUnavailable)
	})

	t.Run("too many requests", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "3")
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		c := envelope.NewClient(srv.URL, time.Second, logger)
		_, err := envelope.Call[payload](context.Background(), c, http.MethodGet, "/", nil, nil)

		var retry *envelope.RetryAfterError
		require.ErrorAs(t, err, &retry)
		assert.Equal(t, 3*time.Second, retry.RetryAfter)
		assert.ErrorIs(t, err, domain.ErrCollaboratorUnavailable)
	})

	t.Run("timeout is unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		c := envelope.NewClient(srv.URL, 20*time.Millisecond, logger)
		_, err := envelope.Call[payload](context.Background(), c, http.MethodGet, "/", nil, nil)
		assert.ErrorIs(t, err, domain.ErrCollaboratorUnavailable)
	})
}
