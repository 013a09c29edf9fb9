package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/MeKo-Tech/barcodegen/internal/barcode"
	"github.com/MeKo-Tech/barcodegen/internal/codec"
	"github.com/MeKo-Tech/barcodegen/internal/symbology"
	"github.com/MeKo-Tech/barcodegen/internal/version"
)

const (
	encodingBase64 = "base64"

	// maxRequestBytes bounds JSON request bodies.
	maxRequestBytes = 64 * 1024
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Short(),
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	writeJSON(w, http.StatusOK, response)
}

// symbologiesHandler lists the supported symbologies, formats and fonts.
func (s *Server) symbologiesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	types := symbology.Types()
	infos := make([]SymbologyInfo, 0, len(types))
	for _, t := range types {
		info := SymbologyInfo{Name: t.String(), Verifiable: barcode.Supported(t)}
		if r, err := symbology.Get(t); err == nil {
			info.Dimensions = r.Dimensions()
		}
		infos = append(infos, info)
	}

	formats := codec.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}

	writeJSON(w, http.StatusOK, SymbologiesResponse{
		Symbologies: infos,
		Formats:     names,
		Fonts:       s.fonts.Families(),
		Count:       len(infos),
	})
}

// barcodeHandler renders a barcode from query parameters (GET) or a JSON
// body (POST).
func (s *Server) barcodeHandler(w http.ResponseWriter, r *http.Request) {
	var (
		req RenderRequest
		err error
	)
	switch r.Method {
	case http.MethodGet:
		req, err = requestFromQuery(r.URL.Query())
	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if decErr := dec.Decode(&req); decErr != nil {
			err = fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, decErr)
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err != nil {
		renderRequestsTotal.WithLabelValues("unknown", errorType(err)).Inc()
		s.writeErrorResponse(w, err, http.StatusBadRequest)
		return
	}

	requestID := w.Header().Get("X-Request-ID")
	out, err := s.renderObserved(req)
	if err != nil {
		slog.Debug("Barcode render failed", "request_id", requestID, "error", err)
		s.writeErrorResponse(w, err, statusForError(err))
		return
	}

	if req.Encoding == encodingBase64 {
		writeJSON(w, http.StatusOK, BarcodeResponse{
			Success:     true,
			RequestID:   requestID,
			Format:      out.format.String(),
			ContentType: out.format.ContentType(),
			Width:       out.width,
			Height:      out.height,
			Data:        base64.StdEncoding.EncodeToString(out.data),
		})
		return
	}

	w.Header().Set("Content-Type", out.format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(out.data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", "barcode"+out.format.Extension()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.data); err != nil {
		slog.Error("Failed to write barcode response", "error", err)
	}
}

// renderObserved renders req and records render metrics.
func (s *Server) renderObserved(req RenderRequest) (*rendered, error) {
	label := symbologyLabel(firstNonEmpty(req.Type, s.defaults.Symbology))
	start := time.Now()
	out, err := s.render(req)
	if err != nil {
		renderRequestsTotal.WithLabelValues(label, errorType(err)).Inc()
		return nil, err
	}
	label = out.symbology.String()
	renderRequestsTotal.WithLabelValues(label, "ok").Inc()
	renderDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	renderOutputBytes.WithLabelValues(out.format.String()).Observe(float64(len(out.data)))
	return out, nil
}

// symbologyLabel maps a requested symbology to its canonical name so client
// input cannot create new metric series.
func symbologyLabel(name string) string {
	t, err := symbology.ParseType(name)
	if err != nil {
		return "unknown"
	}
	return t.String()
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, err error, statusCode int) {
	writeJSON(w, statusCode, BarcodeResponse{
		Success:   false,
		RequestID: w.Header().Get("X-Request-ID"),
		Error:     err.Error(),
		ErrorType: errorType(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Log error, but can't send another response
		slog.Error("Failed to encode response", "error", err)
	}
}
