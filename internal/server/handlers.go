package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/saveawatt/billsense/internal/advice"
	"github.com/saveawatt/billsense/internal/billing"
	errs "github.com/saveawatt/billsense/internal/errors"
	"github.com/saveawatt/billsense/internal/scorer"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleAnalyze accepts either a multipart 'file' field or a JSON body with
// a file_path, runs the extraction pipeline, and returns the BillRecord
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	data, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	text, err := s.acquirer.Acquire(r.Context(), data)
	if err != nil {
		s.writeError(w, err)
		return
	}

	billType, err := billing.Classify(text)
	if err != nil {
		s.writeError(w, err)
		return
	}

	record := billing.Extract(text, billType)
	if err := billing.Validate(record); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, record)
}

// handleAdvice expects the /analyze output (optionally wrapped with
// household context) and returns the generated advice payload
func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, s.cfg.MaxUploadSize))
	if err != nil {
		s.writeError(w, errs.NewInvalidInputError("failed to read request body"))
		return
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil || len(probe) == 0 {
		s.writeError(w, errs.NewInvalidInputError("Provide bill_data JSON"))
		return
	}

	var req advice.AdviceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, errs.NewInvalidInputError("malformed advice request"))
		return
	}
	if !req.Bill.BillType.Valid() {
		s.writeError(w, errs.NewInvalidInputError("bill_type must be one of TOU, Tiered, Flat/ULO"))
		return
	}
	if req.Context != nil {
		if err := s.validate.Struct(req.Context); err != nil {
			s.writeError(w, errs.NewInvalidInputError(err.Error()))
			return
		}
	}

	payload, err := s.advisor.RequestAdvice(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{"advice": payload})
}

// scoreRequest carries the regression features plus the peak-period total
// the score is normalized against
type scoreRequest struct {
	Features  scorer.Features `json:"features"`
	PeakTotal float64         `json:"peak_total"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errs.NewInvalidInputError("malformed score request"))
		return
	}
	if err := s.validate.Struct(req.Features); err != nil {
		s.writeError(w, errs.NewInvalidInputError(err.Error()))
		return
	}

	score, err := scorer.EfficiencyScore(s.scorer, req.Features, req.PeakTotal)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]float64{"score": score})
}

// readDocument resolves the document bytes from a multipart upload or a
// file_path JSON body. Uploads are spooled to the temp dir under a UUID name
// and removed before the handler returns; nothing persists past the request.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize)

		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, errs.NewInvalidInputError("send a PDF or image as multipart field 'file'")
		}
		defer file.Close()

		if header.Filename == "" || header.Size == 0 {
			return nil, errs.NewInvalidInputError("no file selected")
		}

		tmpPath := filepath.Join(s.cfg.TempDir, uuid.NewString()+filepath.Ext(header.Filename))
		tmp, err := os.Create(tmpPath)
		if err != nil {
			return nil, errs.NewAcquisitionError("failed to stage uploaded file", err)
		}
		defer os.Remove(tmpPath)

		if _, err := io.Copy(tmp, file); err != nil {
			tmp.Close()
			return nil, errs.NewAcquisitionError("failed to stage uploaded file", err)
		}
		if err := tmp.Close(); err != nil {
			return nil, errs.NewAcquisitionError("failed to stage uploaded file", err)
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return nil, errs.NewAcquisitionError("failed to read staged file", err)
		}
		return data, nil
	}

	var body struct {
		FilePath string `json:"file_path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.FilePath == "" {
		return nil, errs.NewInvalidInputError("send a PDF as 'file' (multipart) or provide 'file_path' in JSON")
	}

	data, err := os.ReadFile(body.FilePath)
	if err != nil {
		return nil, errs.NewInvalidInputError("could not read file_path")
	}
	return data, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var pe *errs.PipelineError
	if errors.As(err, &pe) {
		s.log.Warn().Str("code", string(pe.Code)).Err(err).Msg("request failed")
		s.writeJSON(w, errs.HTTPStatus(pe), pe.ToMap())
		return
	}

	s.log.Error().Err(err).Msg("unexpected error")
	s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
