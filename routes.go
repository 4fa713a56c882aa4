package main

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"fitness-buddy/internal/handlers"
	"fitness-buddy/internal/session"
)

func newRouter(h *handlers.Handlers, sessions *session.Manager, exists session.UserChecker, logger *log.Logger) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = jsonStatus(http.StatusNotFound, "Not found.")
	r.MethodNotAllowedHandler = jsonStatus(http.StatusMethodNotAllowed, "Method not allowed.")

	r.HandleFunc("/healthz", h.Health).Methods("GET")

	api := r.NewRoute().Subrouter()
	api.Use(sessions.RequireUser(exists, logger))

	api.HandleFunc("/baseline", h.GetBaseline).Methods("GET")
	api.HandleFunc("/baseline", h.SaveBaseline).Methods("PUT", "POST")
	api.HandleFunc("/checkBaseline", h.CheckBaseline).Methods("GET")
	api.HandleFunc("/daily", h.Daily).Methods("POST")
	api.HandleFunc("/suggestion", h.LatestSuggestion).Methods("GET")
	api.HandleFunc("/suggestion/{id:[0-9]+}/rating", h.RateSuggestion).Methods("POST")
	api.HandleFunc("/checkins", h.ListCheckIns).Methods("GET")

	return r
}

func jsonStatus(status int, msg string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": msg})
	})
}
