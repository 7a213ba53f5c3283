package common

import (
	"net/http"

	"github.com/gorilla/handlers"
	_ "github.com/mkevac/debugcharts"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var log = NewLog("common")

// NewMetricServer serves /metrics and /debug/charts on the default mux.
func NewMetricServer(port string) {
	if port == "" {
		port = ":9000"
	}
	log.Info("Starting metric server", "listen", port)
	http.Handle("/metrics", handlers.CompressHandler(promhttp.Handler()))
	go func() {
		if err := http.ListenAndServe(port, nil); err != nil {
			log.Error("metric server stopped", "err", err)
		}
	}()
}
