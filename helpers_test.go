package eskit

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// newFakeES returns a server that mimics Elasticsearch closely enough for the
// v8 client, which verifies the product header on every response.
func newFakeES(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")

		if handler != nil {
			handler(w, r)

			return
		}

		//nolint:errcheck
		w.Write([]byte(`{}`))
	}))
}

// newFakeKibana returns a server answering the Kibana status endpoint.
func newFakeKibana(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == statusPath {
			w.WriteHeader(http.StatusOK)

			return
		}

		w.WriteHeader(http.StatusNotFound)
	}))
}

// deadServer returns the URL of a server that no longer accepts connections.
func deadServer(t *testing.T) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	addr := srv.URL

	srv.Close()

	return addr
}

func hostOf(t *testing.T, rawURL string) string {
	t.Helper()

	u, err := url.Parse(rawURL)
	require.NoError(t, err)

	return u.Hostname()
}

func portOf(t *testing.T, rawURL string) int {
	t.Helper()

	u, err := url.Parse(rawURL)
	require.NoError(t, err)

	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	return port
}

// stackFor builds a handle pointed at the given fake servers, without touching
// the default-stack registry.
func stackFor(t *testing.T, esURL, kibanaURL string) *Stack {
	t.Helper()

	s, err := NewStack(&StackOptions{
		Host:        hostOf(t, esURL),
		ElasticPort: portOf(t, esURL),
		KibanaHost:  hostOf(t, kibanaURL),
		KibanaPort:  portOf(t, kibanaURL),

		SkipDefaultRegistration: true,
	})
	require.NoError(t, err)

	return s
}
