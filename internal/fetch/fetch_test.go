package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomag-tools/importer/internal/config"
	"github.com/gomag-tools/importer/pkg/models"
)

func TestBlocked(t *testing.T) {
	long := strings.Repeat("real product content ", 200)

	tests := []struct {
		name    string
		status  int
		body    string
		blocked bool
	}{
		{"normal page", 200, long, false},
		{"too short", 200, "<html></html>", true},
		{"error status", 403, long, true},
		{"captcha marker", 200, long + "please solve this CAPTCHA to continue", true},
		{"cloudflare interstitial", 200, long + "<title>Just a moment...</title>", true},
		{"js wall", 200, long + "Please Enable JavaScript to view this page", true},
		{"attention required", 200, long + "Attention Required! | Cloudflare", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.blocked, Blocked(tt.status, tt.body, 2500))
		})
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(nil)
	require.NoError(t, err)
	return cfg
}

func TestFetcher_StaticSufficient(t *testing.T) {
	page := "<html><head><title>Bag</title></head><body>" +
		strings.Repeat("<p>product description text</p>", 150) + "</body></html>"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(page))
	}))
	defer server.Close()

	f := New(testConfig(t))

	res, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, models.MethodStatic, res.Method)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.HTML, "<title>Bag</title>")
}

func TestFetchStatic_ErrorStatusReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("denied"))
	}))
	defer server.Close()

	f := New(testConfig(t))

	body, status, err := f.fetchStatic(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, status)
	assert.True(t, Blocked(status, body, f.minBytes))
}
