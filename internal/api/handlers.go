package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dyluth/roadlog/internal/filter"
	"github.com/dyluth/roadlog/internal/geo"
	"github.com/dyluth/roadlog/internal/timespec"
	"github.com/dyluth/roadlog/pkg/obstacle"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// obstacleRequest is the body of POST and PUT. Omitted coordinates are captured
// from the server's locator, as the app does when a record is saved or edited.
type obstacleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// listObstacles supports ?name=GLOB, ?since=, ?until= and ?near=LAT,LON&radius_km=R.
func (s *Server) listObstacles(w http.ResponseWriter, r *http.Request) {
	criteria, err := s.criteriaFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list := filter.Apply(criteria, s.store.List(r.Context()))
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) criteriaFromQuery(r *http.Request) (*filter.Criteria, error) {
	q := r.URL.Query()

	since, until, err := timespec.ParseRange(q.Get("since"), q.Get("until"), s.now())
	if err != nil {
		return nil, err
	}

	c := &filter.Criteria{
		SinceTimestampMs: since,
		UntilTimestampMs: until,
		NameGlob:         q.Get("name"),
	}

	if near := q.Get("near"); near != "" {
		lat, lon, ok := strings.Cut(near, ",")
		if !ok {
			return nil, fmt.Errorf("near must be LAT,LON")
		}
		p := &filter.Point{}
		if p.Latitude, err = strconv.ParseFloat(strings.TrimSpace(lat), 64); err != nil {
			return nil, fmt.Errorf("invalid near latitude: %w", err)
		}
		if p.Longitude, err = strconv.ParseFloat(strings.TrimSpace(lon), 64); err != nil {
			return nil, fmt.Errorf("invalid near longitude: %w", err)
		}
		c.Near = p

		c.RadiusKm = 1
		if radius := q.Get("radius_km"); radius != "" {
			if c.RadiusKm, err = strconv.ParseFloat(radius, 64); err != nil || c.RadiusKm < 0 {
				return nil, fmt.Errorf("radius_km must be a non-negative number")
			}
		}
	}

	return c, nil
}

func (s *Server) getObstacle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	o, found, err := s.store.Find(r.Context(), id)
	if err != nil {
		s.logger.Error("Failed to read obstacles", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read obstacles")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("obstacle with ID '%s' not found", id))
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) createObstacle(w http.ResponseWriter, r *http.Request) {
	fields, ok := s.decodeFields(w, r)
	if !ok {
		return
	}

	created, err := s.store.CreateObstacle(r.Context(), fields)
	if err != nil {
		s.logger.Error("Failed to create obstacle", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save obstacle")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateObstacle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	fields, ok := s.decodeFields(w, r)
	if !ok {
		return
	}

	found, err := s.store.UpdateObstacle(r.Context(), id, fields)
	if err != nil {
		s.logger.Error("Failed to update obstacle", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update obstacle")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("obstacle with ID '%s' not found", id))
		return
	}

	writeJSON(w, http.StatusOK, obstacle.Obstacle{
		ID:          id,
		Name:        fields.Name,
		Description: fields.Description,
		Longitude:   fields.Longitude,
		Latitude:    fields.Latitude,
	})
}

// deleteObstacle is idempotent: deleting a missing ID succeeds like the store does.
func (s *Server) deleteObstacle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.store.Delete(r.Context(), id) {
		writeError(w, http.StatusInternalServerError, "failed to delete obstacle")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listContacts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.contacts)
}

// decodeFields parses and validates the request body, writing a 400 on failure.
func (s *Server) decodeFields(w http.ResponseWriter, r *http.Request) (obstacle.Fields, bool) {
	var req obstacleRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return obstacle.Fields{}, false
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		writeError(w, http.StatusBadRequest, "latitude and longitude must be given together")
		return obstacle.Fields{}, false
	}

	fields := obstacle.Fields{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Latitude != nil {
		fields.Latitude, fields.Longitude = *req.Latitude, *req.Longitude
	} else {
		pos := geo.Resolve(r.Context(), s.locator, s.logger)
		fields.Latitude, fields.Longitude = pos.Latitude, pos.Longitude
	}

	if err := fields.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return obstacle.Fields{}, false
	}
	return fields, true
}
