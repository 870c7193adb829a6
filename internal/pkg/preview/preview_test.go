package preview

import (
	"BuilderCentral/internal/api/config"
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"net/url"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ogPage = `<html><head>
<title>Fallback title</title>
<meta property="og:title" content="  Regex   Playground ">
<meta property="og:description" content="Test regular expressions in the browser.">
<meta property="og:image" content="/static/cover.png">
<meta property="og:site_name" content="RegexPG">
</head><body><p>hello</p></body></html>`

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestParse_OpenGraph(t *testing.T) {
	p := Parse(ogPage, mustURL(t, "https://regex.example.com/app"))

	assert.Equal(t, "Regex Playground", p.Title)
	assert.Equal(t, "Test regular expressions in the browser.", p.Description)
	assert.Equal(t, "https://regex.example.com/static/cover.png", p.Image)
	assert.Equal(t, "RegexPG", p.SiteName)
}

func TestParse_FallsBackToTitleAndMetaDescription(t *testing.T) {
	html := `<html><head><title>JSON Formatter</title><meta name="description" content="Pretty print JSON"></head><body></body></html>`
	p := Parse(html, mustURL(t, "https://json.example.com"))

	assert.Equal(t, "JSON Formatter", p.Title)
	assert.Equal(t, "Pretty print JSON", p.Description)
	assert.Equal(t, "json.example.com", p.SiteName)
	assert.Empty(t, p.Image)
}

func TestParse_TruncatesLongDescription(t *testing.T) {
	long := strings.Repeat("word ", 200)
	html := `<html><head><title>T</title><meta name="description" content="` + long + `"></head></html>`
	p := Parse(html, mustURL(t, "https://x.example.com"))

	assert.True(t, strings.HasSuffix(p.Description, "..."))
	assert.LessOrEqual(t, len([]rune(p.Description)), maxDescriptionLen+3)
}

func TestFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.UserAgent())
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(ogPage))
	}))
	defer srv.Close()

	f := newFetcher(config.PreviewConfig{TimeoutSeconds: 2, UserAgent: "test-agent"}, true)
	p, err := f.Fetch(context.Background(), srv.URL+"/app")
	require.NoError(t, err)
	assert.Equal(t, "Regex Playground", p.Title)
	assert.Equal(t, srv.URL+"/static/cover.png", p.Image)
}

func TestFetcher_RejectsNonHTTP(t *testing.T) {
	f := NewFetcher(config.PreviewConfig{})
	_, err := f.Fetch(context.Background(), "file:///etc/passwd")
	assert.ErrorIs(t, err, ErrUnsupportedURL)
}

func TestFetcher_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newFetcher(config.PreviewConfig{TimeoutSeconds: 2}, true).Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestFetcher_RejectsLocalTargets(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(ogPage))
	}))
	defer srv.Close()

	f := NewFetcher(config.PreviewConfig{TimeoutSeconds: 2})
	for _, target := range []string{
		srv.URL,
		"http://localhost:" + mustURL(t, srv.URL).Port(),
		"http://169.254.169.254/latest/meta-data/",
		"http://[::1]:" + mustURL(t, srv.URL).Port(),
		"http://10.0.0.8/",
	} {
		_, err := f.Fetch(context.Background(), target)
		assert.ErrorIs(t, err, ErrBlockedAddress, target)
	}
	assert.Zero(t, hits)
}

// guardAddress 挂在拨号上，重定向后的每次建连都会经过它
func TestGuardAddress(t *testing.T) {
	assert.ErrorIs(t, guardAddress("tcp", "127.0.0.1:8080", nil), ErrBlockedAddress)
	assert.ErrorIs(t, guardAddress("tcp", "[fe80::1%eth0]:80", nil), ErrBlockedAddress)
	assert.ErrorIs(t, guardAddress("tcp", "not-an-address", nil), ErrBlockedAddress)
	assert.NoError(t, guardAddress("tcp", "93.184.216.34:443", nil))
	assert.NoError(t, guardAddress("tcp", "[2606:2800:220:1::]:443", nil))
}

func TestPublicAddr(t *testing.T) {
	cases := map[string]bool{
		"8.8.8.8":          true,
		"127.0.0.1":        false,
		"10.1.2.3":         false,
		"172.16.0.1":       false,
		"192.168.1.1":      false,
		"169.254.169.254":  false,
		"100.64.0.1":       false,
		"0.0.0.0":          false,
		"::ffff:127.0.0.1": false,
		"fd00::1":          false,
		"fe80::1":          false,
	}
	for raw, want := range cases {
		assert.Equal(t, want, publicAddr(netip.MustParseAddr(raw)), raw)
	}
}

func TestFetcher_CapsResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><head><title>big</title></head><body>"))
		_, _ = w.Write([]byte(strings.Repeat("a", maxBodyBytes+1024)))
	}))
	defer srv.Close()

	_, err := newFetcher(config.PreviewConfig{TimeoutSeconds: 5}, true).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, resty.ErrResponseBodyTooLarge)
}
