// Command server runs the holdem room host: the HTTP room-CRUD and
// action/state API, and the `/ws/room` broadcast socket, both sharing one
// lobby.Registry of rooms and room.Coordinators (§6).
package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"holdemhall/holdem"
	"holdemhall/internal/httpapi"
	"holdemhall/internal/lobby"
	"holdemhall/internal/ws"
)

func main() {
	addr := envOr("SERVER_ADDR", ":8080")
	corsOrigin := envOr("CORS_ORIGIN", "*")

	cfg := holdem.Config{
		ShowdownDisplayDelay:     envDurationMS("SHOWDOWN_DELAY_MS", 0),
		AutoAdvanceStreetDelay:   envDurationMS("AUTO_ADVANCE_STREET_MS", 0),
		AutoAdvanceShowdownDelay: envDurationMS("AUTO_ADVANCE_SHOWDOWN_MS", 0),
	}

	registry := lobby.New(nil)
	broadcaster := ws.NewBroadcaster()
	gateway := ws.New(registry, broadcaster)
	api := httpapi.New(registry, broadcaster, cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/room", gateway.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	api.RegisterRoutes(mux)

	log.Printf("[server] listening on %s (cors origin %s)", addr, corsOrigin)
	if err := http.ListenAndServe(addr, withCORS(corsOrigin, mux)); err != nil {
		log.Fatalf("[server] failed to start: %v", err)
	}
}

func withCORS(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationMS(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
