package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDownload(t *testing.T) {
	var gotUA, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.RawQuery
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("VSOP87 VERSION B1"))
		case "/empty":
		default:
			http.Error(w, "missing", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(WithUserAgent("astro-test"))

	var buf bytes.Buffer
	n, err := c.Download(context.Background(), srv.URL+"/ok", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(17), n)
	assert.Equal(t, "VSOP87 VERSION B1", buf.String())
	assert.Equal(t, "astro-test", gotUA)

	_, err = c.Download(context.Background(), srv.URL+"/empty", &buf)
	assert.ErrorIs(t, err, ErrEmptyBody)

	_, err = c.Download(context.Background(), srv.URL+"/nope", &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")

	resp, err := c.SendRequest(context.Background(), &RequestOptions{
		URL:         srv.URL + "/ok",
		QueryParams: map[string][]string{"v": {"1"}},
	})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "v=1", gotQuery)
}
