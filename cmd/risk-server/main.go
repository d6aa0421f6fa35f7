package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ticker-kit/risk-api/internal/app"
	"github.com/ticker-kit/risk-api/internal/common"
	"github.com/ticker-kit/risk-api/internal/models"
)

func main() {
	configPath := os.Getenv("RISKAPI_CONFIG")

	a, err := app.NewApp(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}

	common.PrintBanner(a.Config, a.Logger)

	a.StartScheduler()

	mux := buildMux(a)

	host := a.Config.Server.Host
	port := a.Config.Server.Port

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		a.Logger.Info().Int("port", port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	a.Logger.Info().
		Str("url", fmt.Sprintf("http://localhost:%d", port)).
		Msg("Server ready")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	a.Logger.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		a.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	a.Close()
	common.PrintShutdownBanner(a.Logger)
}

// buildMux creates the HTTP mux with the REST endpoints.
func buildMux(a *app.App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", healthHandler)
	mux.HandleFunc("GET /api/version", versionHandler)
	mux.HandleFunc("GET /api/ticker/{symbol}", analysisHandler(a))
	mux.HandleFunc("GET /api/ticker/{symbol}/history", historyHandler(a))
	mux.HandleFunc("GET /api/ticker/{symbol}/price", priceHandler(a))
	mux.HandleFunc("GET /api/ticker/{symbol}/chart", chartHandler(a))
	mux.HandleFunc("GET /api/search", searchHandler(a))

	return mux
}

// healthHandler responds to GET /api/health with {"status":"ok"}.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// versionHandler responds to GET /api/version with version info.
func versionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// analysisHandler serves the full ticker analysis. Invalid and unknown
// symbols come back as 200 with an error_msg field; only exhausted
// fallbacks produce a 5xx.
func analysisHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbol := r.PathValue("symbol")
		period := r.URL.Query().Get("period")
		if period == "" {
			period = "1y"
		}

		result, err := a.AnalysisService.AnalyzeTicker(r.Context(), symbol, period)
		if err != nil {
			writeError(a, w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func historyHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbol := r.PathValue("symbol")
		period := r.URL.Query().Get("period")
		if period == "" {
			period = "1y"
		}

		cols, err := a.TickerService.GetHistoricalData(r.Context(), symbol, period)
		if err != nil {
			writeError(a, w, err)
			return
		}
		writeJSON(w, http.StatusOK, cols)
	}
}

func priceHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbol := r.PathValue("symbol")

		price, err := a.TickerService.GetLatestPrice(r.Context(), symbol)
		if err != nil {
			writeError(a, w, err)
			return
		}
		writeJSON(w, http.StatusOK, price)
	}
}

func chartHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbol := r.PathValue("symbol")
		period := r.URL.Query().Get("period")
		if period == "" {
			period = "1y"
		}

		png, err := a.AnalysisService.RenderChart(r.Context(), symbol, period)
		if err != nil {
			writeError(a, w, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		w.Write(png)
	}
}

func searchHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		maxResults := 10
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				maxResults = n
			}
		}
		fuzzy := r.URL.Query().Get("fuzzy") == "true"

		results, err := a.TickerService.SearchTickers(r.Context(), query, maxResults, fuzzy)
		if err != nil {
			writeError(a, w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"results": results})
	}
}

// writeError maps the error taxonomy onto HTTP status codes.
func writeError(a *app.App, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrSourceUnavailable), errors.Is(err, models.ErrServiceUnavailable):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		a.Logger.Error().Err(err).Msg("Request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
