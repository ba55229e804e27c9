// Package api serves the obstacle store and the emergency contacts over HTTP.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dyluth/roadlog/internal/contacts"
	"github.com/dyluth/roadlog/internal/geo"
	"github.com/dyluth/roadlog/pkg/obstacle"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server holds what the handlers share. One Store serves every request,
// so API writes are serialized by the store's mutex.
type Server struct {
	store    *obstacle.Store
	contacts []contacts.Contact
	locator  geo.Locator
	logger   *zap.Logger
	now      func() time.Time
}

// NewRouter builds the HTTP routes. locator may be nil, in which case obstacles
// submitted without coordinates are stored at (0,0).
func NewRouter(store *obstacle.Store, contactList []contacts.Contact, locator geo.Locator, logger *zap.Logger) *mux.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		store:    store,
		contacts: contactList,
		locator:  locator,
		logger:   logger,
		now:      time.Now,
	}

	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods("GET")
	r.HandleFunc("/obstacles", s.listObstacles).Methods("GET")
	r.HandleFunc("/obstacles", s.createObstacle).Methods("POST")
	r.HandleFunc("/obstacles/{id}", s.getObstacle).Methods("GET")
	r.HandleFunc("/obstacles/{id}", s.updateObstacle).Methods("PUT")
	r.HandleFunc("/obstacles/{id}", s.deleteObstacle).Methods("DELETE")
	r.HandleFunc("/contacts", s.listContacts).Methods("GET")

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("Handled request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
