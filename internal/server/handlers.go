package server

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"mvcalc/internal/ingest"
	"mvcalc/internal/report"
	"mvcalc/internal/scoring"

	"github.com/rs/zerolog/log"
)

// maxUploadBytes bounds one multipart upload at 64 MB, an order of
// magnitude above a full year of OCC data.
const maxUploadBytes = 64 << 20

type errorMessage struct {
	Error string `json:"error"`
}

func httpError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorMessage{Error: msg})
}

// analyzeHandler accepts a multipart form with an "occ" file, an optional
// "load" file and threshold/window fields, runs the engine once, stores
// the report and returns it as JSON.
func (s *Server) analyzeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			httpError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}

		eng, err := s.engineFromForm(r)
		if err != nil {
			httpError(w, err.Error(), http.StatusBadRequest)
			return
		}

		occ, err := parseUploadedOcc(r)
		if err != nil {
			httpError(w, err.Error(), http.StatusBadRequest)
			return
		}

		load, err := parseUploadedLoad(r)
		if err != nil {
			httpError(w, err.Error(), http.StatusBadRequest)
			return
		}

		rep, err := eng.Run(occ, load)
		if err != nil {
			httpError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		s.setReport(rep)

		log.Info().
			Str("sector", rep.Sector).
			Int("windows", len(rep.Windows)).
			Bool("withLoad", load != nil).
			Msg("analysis run completed")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rep); err != nil {
			log.Error().Err(err).Msg("encoding report response")
		}
	}
}

// reportHandler returns the last run's report.
func (s *Server) reportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep := s.report()
		if rep == nil {
			httpError(w, "no analysis has been run yet", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rep); err != nil {
			log.Error().Err(err).Msg("encoding report response")
		}
	}
}

type downloadKind int

const (
	downloadWindows downloadKind = iota
	downloadDaily
)

// downloadHandler streams the last run's table as a ';'-delimited CSV.
func (s *Server) downloadHandler(kind downloadKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep := s.report()
		if rep == nil {
			httpError(w, "no analysis has been run yet", http.StatusNotFound)
			return
		}

		name := "mv_windows_" + rep.Sector + ".csv"
		if kind == downloadDaily {
			name = "mv_daily_" + rep.Sector + ".csv"
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)

		var err error
		if kind == downloadDaily {
			err = report.WriteDailyCSV(w, rep)
		} else {
			err = report.WriteWindowCSV(w, rep)
		}
		if err != nil {
			log.Error().Err(err).Msg("streaming CSV download")
		}
	}
}

// engineFromForm builds an engine from the request's form fields, falling
// back to the server defaults for absent fields.
func (s *Server) engineFromForm(r *http.Request) (scoring.Engine, error) {
	eng := s.defaults

	var err error
	if eng.Thresholds.Sustain, err = formFloat(r, "sustain", eng.Thresholds.Sustain); err != nil {
		return eng, err
	}
	if eng.Thresholds.Peak, err = formFloat(r, "peak", eng.Thresholds.Peak); err != nil {
		return eng, err
	}
	if eng.Thresholds.Tolerance, err = formFloat(r, "tolerance", eng.Thresholds.Tolerance); err != nil {
		return eng, err
	}

	switch r.FormValue("windows") {
	case "", "hourly":
		eng.Windows = scoring.HourlyWindows
	case "sliding":
		eng.Windows = scoring.SlidingWindows
	default:
		return eng, fmt.Errorf("unknown windows mode %q", r.FormValue("windows"))
	}

	if r.FormValue("strict") == "true" {
		eng.Mismatch = scoring.MismatchFail
	}
	return eng, nil
}

func formFloat(r *http.Request, key string, fallback float64) (float64, error) {
	raw := r.FormValue(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", key, err)
	}
	return v, nil
}

func parseUploadedOcc(r *http.Request) (*ingest.OccTable, error) {
	f, _, err := r.FormFile("occ")
	if err != nil {
		return nil, fmt.Errorf("missing OCC file: %w", err)
	}
	defer closeUpload(f)
	return ingest.ParseOcc(f)
}

func parseUploadedLoad(r *http.Request) (*ingest.LoadTable, error) {
	f, _, err := r.FormFile("load")
	if err == http.ErrMissingFile {
		return nil, nil // LOAD is optional
	}
	if err != nil {
		return nil, fmt.Errorf("reading LOAD file: %w", err)
	}
	defer closeUpload(f)
	return ingest.ParseLoad(f)
}

func closeUpload(f multipart.File) {
	if err := f.Close(); err != nil {
		log.Error().Err(err).Msg("closing uploaded file")
	}
}
