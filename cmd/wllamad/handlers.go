package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lxe/wllama/foundation/logger"
	"github.com/lxe/wllama/glue"
	"github.com/lxe/wllama/observ/metrics"
)

func newMux(log *logger.Logger, d *glue.Dispatcher, cfg serverConfig) http.Handler {
	r := chi.NewRouter()

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Content-Type"},
		}))
	}

	r.Get("/livez", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/v1/message", func(w http.ResponseWriter, req *http.Request) {
		var msg glue.Message

		body := http.MaxBytesReader(w, req.Body, cfg.MaxBodyBytes)
		if err := json.NewDecoder(body).Decode(&msg); err != nil {
			writeJSON(req.Context(), log, w, http.StatusBadRequest, glue.NewErrorMessage("malformed message envelope"))
			return
		}

		metrics.RequestsTotal.WithLabelValues(msg.Name).Inc()

		started := time.Now()
		res := d.Dispatch(req.Context(), msg)

		if failed(res) {
			metrics.ErrorsTotal.WithLabelValues(msg.Name).Inc()
		}

		log.Info(req.Context(), "dispatch", "name", msg.Name, "response", res.Name, "failed", failed(res), "took", time.Since(started).String())

		writeJSON(req.Context(), log, w, http.StatusOK, res)
	})

	return r
}

// failed probes the response body for the success flag shared by every
// response schema.
func failed(msg glue.Message) bool {
	var probe struct {
		Success bool `json:"success"`
	}

	if err := json.Unmarshal(msg.Body, &probe); err != nil {
		return true
	}

	return !probe.Success
}

func writeJSON(ctx context.Context, log *logger.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug(ctx, "write-json", "status", "encode failed", "error", err)
	}
}
