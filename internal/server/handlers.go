package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mohanadbarakat001/ATS/internal/document"
	"github.com/mohanadbarakat001/ATS/internal/generation"
	"github.com/mohanadbarakat001/ATS/internal/history"
	"github.com/mohanadbarakat001/ATS/internal/types"
)

// OptimizeRequest represents the request body for /optimize
type OptimizeRequest struct {
	ResumeText     string           `json:"resumeText"`
	JobDescription string           `json:"jobDescription"`
	Config         types.UserConfig `json:"config"`
}

// RegenerateRequest represents the request body for /regenerate
type RegenerateRequest struct {
	CurrentText string `json:"currentText"`
	Instruction string `json:"instruction"`
	Kind        string `json:"kind"`
}

// RegenerateResponse represents the response for /regenerate
type RegenerateResponse struct {
	Text string `json:"text"`
}

// HistorySummary is the per-result row of the history listing
type HistorySummary struct {
	ID         string `json:"id"`
	CreatedAt  int64  `json:"createdAt"`
	TargetRole string `json:"targetRole"`
	MatchScore int    `json:"matchScore"`
}

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleOptimize runs one full optimization and stores the result
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Config == (types.UserConfig{}) {
		req.Config = types.DefaultUserConfig()
	}

	genReq := types.GenerationRequest{
		ResumeText:     req.ResumeText,
		JobDescription: req.JobDescription,
		Config:         req.Config,
	}
	if err := genReq.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := s.generator.Generate(r.Context(), genReq)
	if err != nil {
		s.logger.Error("generation failed", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result := types.OptimizationResult{
		ID:                 uuid.NewString(),
		CreatedAt:          time.Now().UnixMilli(),
		OriginalResumeText: genReq.ResumeText,
		JobDescription:     genReq.JobDescription,
		OptimizedResume:    outcome.Resume,
		CoverLetter:        outcome.CoverLetter,
		LinkedInSummary:    outcome.LinkedInSummary,
		Analysis:           outcome.Analysis,
		TargetRole:         outcome.TargetRole,
	}

	// Persistence failures are logged but never block the response.
	if err := s.store.Append(result); err != nil {
		s.logger.Error("failed to store result", zap.String("id", result.ID), zap.Error(err))
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleRegenerate rewrites a single fragment
func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	var req RegenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var kind generation.FragmentKind
	switch req.Kind {
	case string(generation.FragmentSummary):
		kind = generation.FragmentSummary
	case string(generation.FragmentBullet), "":
		kind = generation.FragmentBullet
	case string(generation.FragmentCoverLetter):
		kind = generation.FragmentCoverLetter
	default:
		s.errorResponse(w, http.StatusBadRequest, "unknown fragment kind: "+req.Kind)
		return
	}

	if req.CurrentText == "" {
		s.errorResponse(w, http.StatusBadRequest, "currentText is required")
		return
	}
	instruction := req.Instruction
	if instruction == "" {
		instruction = generation.BulletInstruction()
	}

	text, err := s.generator.RegenerateFragment(r.Context(), req.CurrentText, instruction, kind)
	if err != nil {
		s.logger.Error("fragment regeneration failed", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, RegenerateResponse{Text: text})
}

// handleListHistory returns summaries of every stored result, newest first
func (s *Server) handleListHistory(w http.ResponseWriter, _ *http.Request) {
	results := s.store.All()
	summaries := make([]HistorySummary, 0, len(results))
	for _, r := range results {
		summaries = append(summaries, HistorySummary{
			ID:         r.ID,
			CreatedAt:  r.CreatedAt,
			TargetRole: r.TargetRole,
			MatchScore: r.Analysis.MatchScore,
		})
	}
	s.jsonResponse(w, http.StatusOK, summaries)
}

// handleGetResult returns one stored result in full
func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	result, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleExportResume returns the portable text rendering of a stored resume
func (s *Server) handleExportResume(w http.ResponseWriter, r *http.Request) {
	result, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(document.ToPortableText(result.OptimizedResume))); err != nil {
		s.logger.Error("failed to write resume export", zap.Error(err))
	}
}

// handleDeleteResult removes one stored result
func (s *Server) handleDeleteResult(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.Remove(id); err != nil {
		var notFound *history.NotFoundError
		if errors.As(err, &notFound) {
			s.errorResponse(w, http.StatusNotFound, err.Error())
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"deleted": id})
}
