package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/HelicopterHelicopter/AssetHound/internal/domain"
	"github.com/HelicopterHelicopter/AssetHound/internal/scanner"
	"github.com/HelicopterHelicopter/AssetHound/internal/storage"
)

func (s *Server) handleValidateRequest(w http.ResponseWriter, r *http.Request) {
	var req domain.ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	urls := req.URLs
	if req.Text != "" {
		if req.HTML {
			extracted, err := scanner.ExtractFromHTML(req.BaseURL, req.Text)
			if err != nil {
				s.respondWithError(w, http.StatusBadRequest, "Could not parse HTML: "+err.Error())
				return
			}
			urls = append(urls, extracted...)
		} else {
			urls = append(urls, scanner.ExtractFromText(req.Text)...)
		}
	}

	if len(urls) == 0 {
		s.respondWithError(w, http.StatusBadRequest, "No URLs to validate")
		return
	}
	for _, u := range urls {
		if _, err := url.ParseRequestURI(u); err != nil {
			s.respondWithError(w, http.StatusBadRequest, "Invalid URL in list: "+u)
			return
		}
	}

	results := s.engine.ValidateBatch(r.Context(), urls)
	s.respondWithJSON(w, http.StatusOK, domain.ValidateResponse{Results: results, Count: len(results)})
}

func (s *Server) handleCancelRequest(w http.ResponseWriter, r *http.Request) {
	s.engine.Cancel()
	s.respondWithJSON(w, http.StatusAccepted, map[string]string{"message": "Cancellation requested"})
}

func (s *Server) handleStatusRequest(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondWithError(w, http.StatusNotImplemented, "Outcome history is not configured")
		return
	}

	urlParam := r.URL.Query().Get("url")
	if urlParam == "" {
		s.respondWithError(w, http.StatusBadRequest, "URL query parameter is required")
		return
	}

	status, err := s.store.GetStatus(r.Context(), urlParam)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "URL status not found")
			return
		}
		s.logger.Error("failed to get URL status", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not retrieve status")
		return
	}

	s.respondWithJSON(w, http.StatusOK, status)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if len(s.pingers) == 0 {
		s.respondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
		return
	}

	healthStatus := make(map[string]string)
	healthy := true
	for name, p := range s.pingers {
		if err := p.Ping(ctx); err != nil {
			healthStatus[name] = "unhealthy"
			healthy = false
			s.logger.Error("health check failed", zap.String("backend", name), zap.Error(err))
		} else {
			healthStatus[name] = "healthy"
		}
	}

	if !healthy {
		s.respondWithJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}
	s.respondWithJSON(w, http.StatusOK, healthStatus)
}

// --- Helper Functions ---

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
