package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pattern-engine/internal/patterns"
)

const defaultLimit = 50

func parseLimit(c *gin.Context) int {
	limit := defaultLimit
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}
	return limit
}

// ============================================================================
// SIGNAL HANDLERS
// ============================================================================

// handleRecentSignals returns the latest persisted signals
func (s *Server) handleRecentSignals(c *gin.Context) {
	signals, err := s.repo.GetRecentSignals(c.Request.Context(), parseLimit(c))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to fetch recent signals")
		errorResponse(c, http.StatusInternalServerError, "Failed to fetch signals")
		return
	}
	successResponse(c, signals)
}

// handleSignalDecisions returns the filter decisions for one signal
func (s *Server) handleSignalDecisions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid signal id")
		return
	}

	decisions, err := s.repo.GetSignalDecisions(c.Request.Context(), id)
	if err != nil {
		s.logger.Error().Err(err).Str("signal_id", id.String()).Msg("Failed to fetch signal decisions")
		errorResponse(c, http.StatusInternalServerError, "Failed to fetch decisions")
		return
	}
	successResponse(c, decisions)
}

// handleSignalsByPattern returns signals for one pattern number
func (s *Server) handleSignalsByPattern(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid pattern number")
		return
	}
	if _, ok := patterns.DefinitionByNumber(number); !ok {
		errorResponse(c, http.StatusNotFound, "Unknown pattern number")
		return
	}

	signals, err := s.repo.GetSignalsByPattern(c.Request.Context(), number, parseLimit(c))
	if err != nil {
		s.logger.Error().Err(err).Int("pattern", number).Msg("Failed to fetch signals by pattern")
		errorResponse(c, http.StatusInternalServerError, "Failed to fetch signals")
		return
	}
	successResponse(c, signals)
}

// handleSignalsBySymbol returns signals for one symbol
func (s *Server) handleSignalsBySymbol(c *gin.Context) {
	symbol := c.Param("symbol")
	if symbol == "" {
		errorResponse(c, http.StatusBadRequest, "Missing symbol")
		return
	}

	signals, err := s.repo.GetSignalsBySymbol(c.Request.Context(), symbol, parseLimit(c))
	if err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("Failed to fetch signals by symbol")
		errorResponse(c, http.StatusInternalServerError, "Failed to fetch signals")
		return
	}
	successResponse(c, signals)
}

// ============================================================================
// PATTERN AND FILTER HANDLERS
// ============================================================================

// handlePatterns returns the static pattern catalog
func (s *Server) handlePatterns(c *gin.Context) {
	defs := patterns.Definitions()
	catalog := make([]gin.H, 0, len(defs))
	for _, def := range defs {
		catalog = append(catalog, gin.H{
			"number":          def.Number,
			"name":            def.Name,
			"priority":        def.Priority,
			"family":          def.Family,
			"base_confidence": def.BaseConfidence,
		})
	}
	successResponse(c, catalog)
}

// handleFilterStats returns the rolling filter diagnostics
func (s *Server) handleFilterStats(c *gin.Context) {
	successResponse(c, gin.H{
		"correlation": s.engine.CorrelationStats(),
		"consistency": s.engine.ConsistencyStats(),
	})
}
