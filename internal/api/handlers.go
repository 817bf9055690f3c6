package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/M-AKIMOTOO/uptimeplot/internal/cache"
	"github.com/M-AKIMOTOO/uptimeplot/internal/catalog"
	"github.com/M-AKIMOTOO/uptimeplot/internal/metrics"
	"github.com/M-AKIMOTOO/uptimeplot/internal/transform"
	"github.com/M-AKIMOTOO/uptimeplot/internal/visibility"
)

var validate = validator.New()

// errSampleBudget marks a window that would demand more samples per pair
// than the configured ceiling.
var errSampleBudget = errors.New("sample budget exceeded")

// stationDTO mirrors the station catalog record: geodetic fields, or a
// geocentric "ecef_m" triple which wins when present.
type stationDTO struct {
	ID     string      `json:"id" validate:"required"`
	LatDeg float64     `json:"lat_deg"`
	LonDeg float64     `json:"lon_deg"`
	AltM   float64     `json:"alt_m"`
	ECEFM  *[3]float64 `json:"ecef_m,omitempty"`
}

func (d stationDTO) station() catalog.Station {
	if d.ECEFM != nil {
		return catalog.StationFromECEF(d.ID, d.ECEFM[0], d.ECEFM[1], d.ECEFM[2])
	}
	return catalog.Station{ID: d.ID, LatDeg: d.LatDeg, LonDeg: d.LonDeg, AltM: d.AltM}
}

type sourceDTO struct {
	ID     string  `json:"id" validate:"required"`
	RADeg  float64 `json:"ra_deg"`
	DecDeg float64 `json:"dec_deg"`
}

func (d sourceDTO) source() catalog.Source {
	return catalog.Source{ID: d.ID, RADeg: d.RADeg, DecDeg: d.DecDeg}
}

type visibilityRequest struct {
	Start           string       `json:"start" validate:"required"`
	End             string       `json:"end" validate:"required"`
	StepSeconds     int          `json:"step_seconds" validate:"gte=0"`
	MinElevationDeg *float64     `json:"min_elevation_deg"`
	Stations        []stationDTO `json:"stations" validate:"dive"`
	Sources         []sourceDTO  `json:"sources" validate:"dive"`
}

type visibilityResponse struct {
	Start           time.Time               `json:"start"`
	End             time.Time               `json:"end"`
	StepSeconds     int                     `json:"step_seconds"`
	MinElevationDeg float64                 `json:"min_elevation_deg"`
	Results         []visibility.PairResult `json:"results"`
	GeneratedAt     time.Time               `json:"generated_at"`
}

type errorResponse struct {
	Error             string `json:"error"`
	Kind              string `json:"kind,omitempty"`
	MaxSamplesPerPair int    `json:"max_samples_per_pair,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeRequestError maps engine error kinds onto HTTP responses. Input
// errors surface as 400 with a machine-readable kind; anything else is 500.
func (s *Server) writeRequestError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, transform.ErrInvalidCalendarDate):
		resp.Kind = "invalid_date"
	case errors.Is(err, visibility.ErrInvalidWindow):
		resp.Kind = "invalid_window"
	case errors.Is(err, visibility.ErrInvalidThreshold):
		resp.Kind = "invalid_threshold"
	case errors.Is(err, catalog.ErrInvalidCoordinate):
		resp.Kind = "invalid_coordinate"
	case errors.Is(err, errSampleBudget):
		resp.Kind = "sample_budget"
		resp.MaxSamplesPerPair = s.cfg.MaxSamplesPerPair
	default:
		status = http.StatusInternalServerError
		resp.Kind = "internal"
	}
	writeJSON(w, status, resp)
}

// buildWindow parses civil timestamps, applies the step default, and bounds
// the per-pair sample count before any scan starts.
func (s *Server) buildWindow(startStr, endStr string, stepSeconds int) (visibility.Window, error) {
	start, err := transform.ParseCivilDate(startStr)
	if err != nil {
		return visibility.Window{}, fmt.Errorf("start: %w", err)
	}
	end, err := transform.ParseCivilDate(endStr)
	if err != nil {
		return visibility.Window{}, fmt.Errorf("end: %w", err)
	}
	if stepSeconds == 0 {
		stepSeconds = s.cfg.DefaultStepSeconds
	}
	window := visibility.Window{
		Start: start,
		End:   end,
		Step:  time.Duration(stepSeconds) * time.Second,
	}
	if err := window.Validate(); err != nil {
		return visibility.Window{}, err
	}
	if n := window.SampleCount(); n > s.cfg.MaxSamplesPerPair {
		return visibility.Window{}, fmt.Errorf("window needs %d samples per pair, limit is %d: %w", n, s.cfg.MaxSamplesPerPair, errSampleBudget)
	}
	return window, nil
}

// resolveCatalog returns the request's inline records, falling back to the
// loaded catalog snapshot for whichever side the request omits.
func (s *Server) resolveCatalog(reqStations []stationDTO, reqSources []sourceDTO) ([]catalog.Station, []catalog.Source, error) {
	var stations []catalog.Station
	var sources []catalog.Source

	for _, d := range reqStations {
		stations = append(stations, d.station())
	}
	for _, d := range reqSources {
		sources = append(sources, d.source())
	}

	snap := s.store.Get()
	if stations == nil {
		if snap == nil {
			return nil, nil, errors.New("no stations: none in request and no catalog loaded")
		}
		stations = snap.Stations
	}
	if sources == nil {
		if snap == nil {
			return nil, nil, errors.New("no sources: none in request and no catalog loaded")
		}
		sources = snap.Sources
	}
	return stations, sources, nil
}

// visibilityKey is the canonical form of a visibility request after defaults
// are applied. Its JSON encoding feeds the result-cache digest.
type visibilityKey struct {
	Start    int64             `json:"start"`
	End      int64             `json:"end"`
	StepSec  int               `json:"step_sec"`
	MinEl    float64           `json:"min_el"`
	Stations []catalog.Station `json:"stations"`
	Sources  []catalog.Source  `json:"sources"`
}

func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	var req visibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error(), Kind: "bad_json"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "invalid_request"})
		return
	}

	window, err := s.buildWindow(req.Start, req.End, req.StepSeconds)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	minEl := s.cfg.DefaultMinElevationDeg
	if req.MinElevationDeg != nil {
		minEl = *req.MinElevationDeg
	}

	stations, sources, err := s.resolveCatalog(req.Stations, req.Sources)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "no_catalog"})
		return
	}

	key, err := json.Marshal(visibilityKey{
		Start:    window.Start.Unix(),
		End:      window.End.Unix(),
		StepSec:  int(window.Step / time.Second),
		MinEl:    minEl,
		Stations: stations,
		Sources:  sources,
	})
	if err != nil {
		s.writeRequestError(w, err)
		return
	}
	digest := cache.Digest(key)
	if payload, ok := s.results.Get(digest); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "hit")
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
		return
	}

	results, err := visibility.ComputeAll(r.Context(), stations, sources, window, minEl, s.cfg.Workers)
	if err != nil {
		if r.Context().Err() != nil {
			// Client went away; nothing useful to write.
			return
		}
		s.writeRequestError(w, err)
		return
	}

	payload, err := json.Marshal(visibilityResponse{
		Start:           window.Start,
		End:             window.End,
		StepSeconds:     int(window.Step / time.Second),
		MinElevationDeg: minEl,
		Results:         results,
		GeneratedAt:     time.Now().UTC(),
	})
	if err != nil {
		s.writeRequestError(w, err)
		return
	}
	s.results.Put(digest, payload)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "miss")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

type samplesRequest struct {
	Start       string      `json:"start" validate:"required"`
	End         string      `json:"end" validate:"required"`
	StepSeconds int         `json:"step_seconds" validate:"gte=0"`
	Station     *stationDTO `json:"station" validate:"required"`
	Sources     []sourceDTO `json:"sources" validate:"dive"`
}

type sourceTrack struct {
	SourceID string              `json:"source_id"`
	Samples  []visibility.Sample `json:"samples"`
}

type samplesResponse struct {
	StationID   string        `json:"station_id"`
	Start       time.Time     `json:"start"`
	End         time.Time     `json:"end"`
	StepSeconds int           `json:"step_seconds"`
	Tracks      []sourceTrack `json:"tracks"`
}

// handleSamples returns the full az/el track of one station against a set of
// sources, one scan per source, fanned out across the worker budget.
func (s *Server) handleSamples(w http.ResponseWriter, r *http.Request) {
	var req samplesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error(), Kind: "bad_json"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "invalid_request"})
		return
	}

	window, err := s.buildWindow(req.Start, req.End, req.StepSeconds)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	_, sources, err := s.resolveCatalog([]stationDTO{*req.Station}, req.Sources)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "no_catalog"})
		return
	}
	station := req.Station.station()

	workers := s.cfg.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(workers)
	tracks := make([]sourceTrack, len(sources))
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// Threshold -90 keeps the whole track: sampling has no cutoff.
			scan, err := visibility.NewScan(station, src, window, -90)
			if err != nil {
				return err
			}
			tracks[i] = sourceTrack{SourceID: src.ID, Samples: scan.Samples()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if r.Context().Err() != nil {
			return
		}
		s.writeRequestError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, samplesResponse{
		StationID:   station.ID,
		Start:       window.Start,
		End:         window.End,
		StepSeconds: int(window.Step / time.Second),
		Tracks:      tracks,
	})
}

func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Get()
	if snap == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no catalog loaded", Kind: "no_catalog"})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type catalogRequest struct {
	Stations []stationDTO `json:"stations" validate:"min=1,dive"`
	Sources  []sourceDTO  `json:"sources" validate:"min=1,dive"`
}

func (s *Server) handlePutCatalog(w http.ResponseWriter, r *http.Request) {
	var req catalogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error(), Kind: "bad_json"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "invalid_request"})
		return
	}

	stations := make([]catalog.Station, 0, len(req.Stations))
	for _, d := range req.Stations {
		st := d.station()
		if err := st.Validate(); err != nil {
			s.writeRequestError(w, err)
			return
		}
		stations = append(stations, st.Canonical())
	}
	sources := make([]catalog.Source, 0, len(req.Sources))
	for _, d := range req.Sources {
		src := d.source()
		if err := src.Validate(); err != nil {
			s.writeRequestError(w, err)
			return
		}
		sources = append(sources, src)
	}

	snap := &catalog.Snapshot{
		Stations: stations,
		Sources:  sources,
		Origin:   "api",
		LoadedAt: time.Now().UTC(),
	}
	s.store.Set(snap)
	metrics.SetCatalogCounts(len(stations), len(sources))
	s.logger.Info("catalog replaced", "component", "api", "stations", len(stations), "sources", len(sources))

	writeJSON(w, http.StatusOK, map[string]any{
		"stations": len(stations),
		"sources":  len(sources),
		"origin":   snap.Origin,
	})
}
