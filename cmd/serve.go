package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/esg-cli/internal/cascade"
	"github.com/sells-group/esg-cli/internal/emissions"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the extraction HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		limiter := apiLimiter()
		exec, err := buildExecutor(cfg.Extraction.ConfidenceThreshold,
			cfg.Extraction.EnableOCR, cfg.Extraction.EnableVision, limiter)
		if err != nil {
			return err
		}
		factors, err := loadFactorTable("")
		if err != nil {
			return err
		}

		mux := http.NewServeMux()

		mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		mux.HandleFunc("POST /v1/extract", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Text   string `json:"text"`
				Region string `json:"region"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
				return
			}
			if req.Text == "" {
				http.Error(w, `{"error":"text is required"}`, http.StatusBadRequest)
				return
			}

			result, err := exec.Run(r.Context(), cascade.Document{Text: req.Text})
			if err != nil {
				zap.L().Error("extract request failed", zap.Error(err))
				http.Error(w, `{"error":"extraction failed"}`, http.StatusUnprocessableEntity)
				return
			}

			resp := map[string]any{"extraction": result}
			if req.Region != "" && result.Record.UsageKWh != nil {
				em, err := emissions.Electricity(*result.Record.UsageKWh, req.Region, factors, reportingPeriod(&result.Record))
				if err != nil {
					http.Error(w, fmt.Sprintf(`{"error":%q}`, err.Error()), http.StatusBadRequest)
					return
				}
				resp["emissions"] = em
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(resp)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
