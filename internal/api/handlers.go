package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nexusai/nexus/internal/core"
	nexuserrors "github.com/nexusai/nexus/pkg/errors"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleLoadVideo(c *gin.Context) {
	var req LoadVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	sessionID := uuid.Nil
	if req.SessionID != "" {
		id, err := uuid.Parse(req.SessionID)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid session_id"})
			return
		}
		sessionID = id
	}

	result, err := s.engine.LoadVideo(c.Request.Context(), sessionID, req.URL, req.Language)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, LoadVideoResponse{LoadResult: result})
}

func (s *Server) handleGetSession(c *gin.Context) {
	sessionID, ok := s.sessionID(c)
	if !ok {
		return
	}
	status, err := s.engine.Status(sessionID)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) handleAsk(c *gin.Context) {
	sessionID, ok := s.sessionID(c)
	if !ok {
		return
	}
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	answer, retrieved, err := s.engine.Ask(c.Request.Context(), sessionID, req.Question)
	if err != nil {
		s.renderError(c, err)
		return
	}

	chunks := make([]RetrievedChunk, 0, len(retrieved))
	for _, sc := range retrieved {
		chunks = append(chunks, RetrievedChunk{
			Text:  sc.Chunk.Text,
			Start: sc.Chunk.Start,
			End:   sc.Chunk.End,
			Score: sc.Score,
		})
	}
	c.JSON(http.StatusOK, AskResponse{
		Answer:    answer.Text,
		Citations: answer.Citations,
		Chunks:    chunks,
	})
}

func (s *Server) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid session id"})
		return uuid.Nil, false
	}
	return id, true
}

// renderError maps engine errors to HTTP statuses.
func (s *Server) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, core.ErrNoVideoLoaded):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		return
	}

	code := nexuserrors.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case nexuserrors.CodeInvalidVideoID, nexuserrors.CodeInvalidConfiguration:
		status = http.StatusBadRequest
	case nexuserrors.CodeTranscriptUnavailable:
		status = http.StatusNotFound
	case nexuserrors.CodeTimeout:
		status = http.StatusGatewayTimeout
	case nexuserrors.CodeEmbeddingFailure, nexuserrors.CodeAnswerGenerationFailure:
		status = http.StatusBadGateway
	}

	s.logger.Error("request failed", map[string]interface{}{
		"path":   c.Request.URL.Path,
		"code":   string(code),
		"status": status,
		"error":  err.Error(),
	})
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: string(code)})
}
