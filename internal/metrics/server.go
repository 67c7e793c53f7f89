package metrics

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPServer creates an HTTP server that exposes Prometheus metrics at /metrics
// and a liveness probe at /healthz. When api is non-nil it serves every other path.
func NewHTTPServer(address string, port int, api http.Handler) *http.Server {
	if port == 0 {
		port = 9090
	}
	// Encoded matching keeps escaped slashes of path parameters intact
	router := mux.NewRouter().UseEncodedPath()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	if api != nil {
		router.PathPrefix("/").Handler(api)
	}
	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", address, port),
		Handler: router,
	}
}
