package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, contentType, body string) (*Client, <-chan string) {
	t.Helper()
	paths := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.EscapedPath()
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", srv.Client()), paths
}

func TestLaunches_shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bare_array", `[{"_id":"a","boosterNumber":12},{"_id":"b","shipNumber":"30"}]`, 2},
		{"message_wrapper", `{"message":[{"_id":"a","boosterNumber":12}]}`, 1},
		{"launches_wrapper", `{"launches":[{"_id":"a"},{"_id":"b"},{"_id":"c"}]}`, 3},
		{"empty_object", `{}`, 0},
		{"message_text", `{"message":"No launches yet"}`, 0},
		{"launches_object", `{"launches":{"count":0}}`, 0},
		{"message_text_then_launches", `{"message":"ok","launches":[{"_id":"a"}]}`, 1},
		{"scalar", `"nope"`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, path := serve(t, http.StatusOK, "application/json", tt.body)

			launches, err := c.Launches(context.Background())
			require.NoError(t, err)
			assert.Len(t, launches, tt.want)
			assert.Equal(t, "/api/getlaunches", <-path)
		})
	}
}

func TestLaunches_hardwareNumbersDecode(t *testing.T) {
	c, _ := serve(t, http.StatusOK, "application/json; charset=utf-8",
		`[{"_id":"a","boosterNumber":12,"shipNumber":0,"launchSite":null}]`)

	launches, err := c.Launches(context.Background())
	require.NoError(t, err)
	require.Len(t, launches, 1)

	booster, ok := launches[0].Booster()
	assert.True(t, ok)
	assert.EqualValues(t, "12", booster)

	_, ok = launches[0].Ship()
	assert.False(t, ok, "ship number 0 means no ship")

	_, ok = launches[0].Site()
	assert.False(t, ok)
}

func TestVehicleLaunches_paths(t *testing.T) {
	c, path := serve(t, http.StatusOK, "application/json", `[]`)

	_, err := c.BoosterLaunches(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "/api/mission/booster/7", <-path)

	_, err = c.ShipLaunches(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/api/mission/ship/a%2Fb", <-path)
}

func TestLaunches_errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		want        error
	}{
		{"rate_limited", http.StatusTooManyRequests, "application/json", `{"detail":"ratelimit, slow down!"}`, ErrRateLimited},
		{"server_error", http.StatusInternalServerError, "application/json", `{"detail":"internal server error"}`, ErrNonOkResponse},
		{"empty_body", http.StatusOK, "application/json", ``, ErrEmptyResponseBody},
		{"html", http.StatusOK, "text/html", `<html></html>`, ErrNonJSONContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := serve(t, tt.status, tt.contentType, tt.body)

			_, err := c.Launches(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestLaunches_errorCarriesDetail(t *testing.T) {
	c, _ := serve(t, http.StatusTooManyRequests, "application/json", `{"detail":"ratelimit, slow down!"}`)

	_, err := c.Launches(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ratelimit, slow down!")
}

func TestLaunches_canceledContext(t *testing.T) {
	c, _ := serve(t, http.StatusOK, "application/json", `[]`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Launches(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
