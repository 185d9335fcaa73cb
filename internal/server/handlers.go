package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/sharewatch/sharewatch/internal/events"
	"github.com/sharewatch/sharewatch/internal/privacy"
	"github.com/sharewatch/sharewatch/internal/templates"
	"go.uber.org/zap"
)

type scanRequest struct {
	Text string `json:"text"`
}

type scanResponse struct {
	Matches []privacy.Match `json:"matches"`
	Count   int             `json:"count"`
}

type highlightResponse struct {
	HTML    string          `json:"html"`
	Matches []privacy.Match `json:"matches"`
	Count   int             `json:"count"`
}

type renderRequest struct {
	Template  string              `json:"template"`
	Variables templates.Variables `json:"variables"`
}

type renderResponse struct {
	Output     string   `json:"output"`
	Unresolved []string `json:"unresolved"`
}

type variablesRequest struct {
	Template string `json:"template"`
}

type variablesResponse struct {
	Variables []string `json:"variables"`
}

type templateBody struct {
	Template string `json:"template"`
}

type templateResponse struct {
	Name      string   `json:"name"`
	Template  string   `json:"template"`
	Variables []string `json:"variables"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleScan scans submitted text and returns the sorted match list.
// The text itself is neither logged nor stored.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start := time.Now()
	matches := s.scanner.Scan(req.Text)
	s.reportDetections(r, "scan", matches, time.Since(start))

	writeJSON(w, http.StatusOK, scanResponse{Matches: matches, Count: len(matches)})
}

// handleHighlight scans submitted text and returns it as marked-up HTML
func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start := time.Now()
	matches := s.scanner.Scan(req.Text)
	html := s.renderer.Render(req.Text, matches)
	s.reportDetections(r, "highlight", matches, time.Since(start))

	writeJSON(w, http.StatusOK, highlightResponse{HTML: html, Matches: matches, Count: len(matches)})
}

// handleTemplateRender substitutes variables into an inline template
func (s *Server) handleTemplateRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	output := s.substitutor.Substitute(req.Template, req.Variables)
	writeJSON(w, http.StatusOK, renderResponse{
		Output:     output,
		Unresolved: templates.ExtractVariables(output),
	})
}

// handleTemplateVariables lists the placeholders of an inline template
func (s *Server) handleTemplateVariables(w http.ResponseWriter, r *http.Request) {
	var req variablesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, variablesResponse{Variables: templates.ExtractVariables(req.Template)})
}

// handleTemplateSave stores a named template
func (s *Server) handleTemplateSave(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var req templateBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.store.Save(r.Context(), name, req.Template); err != nil {
		s.logger.Error("Failed to save template", zap.String("name", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save template")
		return
	}

	writeJSON(w, http.StatusOK, templateResponse{
		Name:      name,
		Template:  req.Template,
		Variables: templates.ExtractVariables(req.Template),
	})
}

// handleTemplateGet fetches a named template
func (s *Server) handleTemplateGet(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	body, err := s.store.Get(r.Context(), name)
	if errors.Is(err, templates.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("template %q not found", name))
		return
	} else if err != nil {
		s.logger.Error("Failed to fetch template", zap.String("name", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch template")
		return
	}

	writeJSON(w, http.StatusOK, templateResponse{
		Name:      name,
		Template:  body,
		Variables: templates.ExtractVariables(body),
	})
}

// handleTemplateList lists stored template names
func (s *Server) handleTemplateList(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("Failed to list templates", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list templates")
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"templates": names})
}

// handleTemplateDelete removes a named template
func (s *Server) handleTemplateDelete(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	err := s.store.Delete(r.Context(), name)
	if errors.Is(err, templates.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("template %q not found", name))
		return
	} else if err != nil {
		s.logger.Error("Failed to delete template", zap.String("name", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete template")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleTemplateRenderNamed substitutes variables into a stored template
func (s *Server) handleTemplateRenderNamed(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	body, err := s.store.Get(r.Context(), name)
	if errors.Is(err, templates.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("template %q not found", name))
		return
	} else if err != nil {
		s.logger.Error("Failed to fetch template", zap.String("name", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch template")
		return
	}

	output := s.substitutor.Substitute(body, req.Variables)
	writeJSON(w, http.StatusOK, renderResponse{
		Output:     output,
		Unresolved: templates.ExtractVariables(output),
	})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
}

// handleInfo handles info requests
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":             "sharewatch",
		"scanner_enabled":  s.scanner.Enabled(),
		"enabled_rules":    s.scanner.EnabledRules(),
		"template_store":   s.store != nil,
		"uptime":           time.Since(s.started).String(),
		"total_requests":   atomic.LoadInt64(&s.totalRequests),
		"total_detections": atomic.LoadInt64(&s.totalDetections),
	})
}

// reportDetections logs a summary of the matches and broadcasts a
// detection event. Matched values stay out of both.
func (s *Server) reportDetections(r *http.Request, source string, matches []privacy.Match, elapsed time.Duration) {
	if len(matches) == 0 {
		return
	}

	s.countDetections(len(matches))
	requestID := getRequestID(r.Context())
	hits := summarizeMatches(matches)

	s.logger.WithRequestID(requestID).Info("Sensitive data detected",
		zap.String("source", source),
		zap.Int("total_matches", len(matches)),
		zap.Any("rules", hits),
	)

	s.hub.BroadcastEvent(events.Event{
		Type:      events.EventTypeDetection,
		Timestamp: time.Now(),
		RequestID: requestID,
		Data: events.DetectionEvent{
			RequestID:    requestID,
			Source:       source,
			Path:         r.URL.Path,
			ClientIP:     getClientIP(r),
			TotalMatches: len(matches),
			Rules:        hits,
			ProcessingMS: float64(elapsed.Nanoseconds()) / 1e6,
		},
	})
}

// summarizeMatches collapses a match list into per-rule counts
func summarizeMatches(matches []privacy.Match) []events.RuleHit {
	index := make(map[string]int)
	hits := make([]events.RuleHit, 0)

	for _, m := range matches {
		if i, ok := index[m.Type]; ok {
			hits[i].Count++
			continue
		}
		index[m.Type] = len(hits)
		hits = append(hits, events.RuleHit{Type: m.Type, Severity: m.Severity, Count: 1})
	}

	return hits
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
