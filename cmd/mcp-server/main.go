// cmd/mcp-server/main.go — HTTP tool server for qseries
//
// Usage:
//
//	go run ./cmd/mcp-server --port 8080 --trunc 40
//
// Tool call endpoint: POST /tool
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/njchilds90/qseries"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func main() {
	port := flag.IntP("port", "p", 8080, "Port to listen on")
	trunc := flag.Int64("trunc", qseries.DefaultTruncation, "Truncation order for requests that do not set one")
	level := flag.String("log-level", "info", "Log level (debug, info, warning, error)")
	flag.Parse()

	lvl, err := log.ParseLevel(*level)
	if err != nil {
		log.Fatalf("invalid --log-level: %v", err)
	}
	log.SetLevel(lvl)

	reg := qseries.NewSymbolRegistry()
	mux := http.NewServeMux()

	mux.HandleFunc("/tool", func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Errorf("panic in /tool: %v\n%s", rec, string(debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		defer r.Body.Close()

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req qseries.ToolRequest
		if err := dec.Decode(&req); err != nil {
			writeError(w, err.Error())
			return
		}
		if dec.More() {
			writeError(w, "invalid JSON: trailing data")
			return
		}

		start := time.Now()
		resp := qseries.HandleToolCall(reg, req.WithTruncation(*trunc))
		entry := log.WithFields(log.Fields{
			"tool":    req.Tool,
			"elapsed": time.Since(start),
		})
		if resp.Error != "" {
			entry.Warningf("tool call failed: %s", resp.Error)
		} else {
			entry.Info("tool call")
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, qseries.ToolSpec())
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "ok",
			"symbols": reg.Len(),
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Infof("qseries tool server listening on %s", addr)
	log.Infof("  POST /tool   — execute a tool call")
	log.Infof("  GET  /schema — tool schema")
	log.Infof("  GET  /health — health check")

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

func writeError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
