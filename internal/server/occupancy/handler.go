package occupancy

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/apiapp/internal/common"
	"github.com/go-chi/chi/v5"
)

type rowResponse struct {
	Date   string             `json:"date"`
	Values map[string]float64 `json:"values"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := "Internal Server Error"
	if errors.Is(err, common.ErrValidation) {
		status = http.StatusUnprocessableEntity
		detail = err.Error()
	}
	writeJSON(w, status, map[string]string{"detail": detail})
}

// Routes returns the read-only dashboard endpoints, meant to be mounted
// under /occupancy.
func (s *Service) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/variables", s.handleVariables)
	r.Get("/outliers", s.handleOutliers)
	r.Get("/nearest", s.handleNearest)
	return r
}

func (s *Service) handleVariables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"variables": s.Variables(),
		"defaults": map[string]any{
			"variable": DefaultVariable,
			"window":   DefaultWindow,
			"sigma":    DefaultSigma,
		},
		"ranges": map[string][2]int{
			"window": {MinWindow, MaxWindow},
			"sigma":  {MinSigma, MaxSigma},
		},
	})
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", common.ErrValidation, name)
	}
	return v, nil
}

func (s *Service) handleOutliers(w http.ResponseWriter, r *http.Request) {
	variable := r.URL.Query().Get("variable")
	if variable == "" {
		variable = DefaultVariable
	}
	window, err := intParam(r, "window", DefaultWindow)
	if err != nil {
		writeError(w, err)
		return
	}
	sigma, err := intParam(r, "sigma", DefaultSigma)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.Outliers(variable, window, sigma)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// parseInstant accepts RFC 3339 or the dataset's own date layout.
func parseInstant(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: x must be a timestamp", common.ErrValidation)
	}
	return t, nil
}

func (s *Service) handleNearest(w http.ResponseWriter, r *http.Request) {
	at := s.Start()
	if raw := r.URL.Query().Get("x"); raw != "" {
		t, err := parseInstant(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		at = t
	}

	row := s.Nearest(at)
	writeJSON(w, http.StatusOK, rowResponse{Date: row.Date.Format(DateLayout), Values: row.Values})
}
