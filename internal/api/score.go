package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"pageQualityGO/internal/models"
	"pageQualityGO/internal/scorer"
)

type scoreRequest struct {
	Signal       json.RawMessage `json:"signal"`
	Requirements json.RawMessage `json:"requirements"`
}

// scoreHandler scores a caller-supplied signal. A signal that cannot be read yields the
// fallback result with 200; a requirements object is merged over the page type's record
// and rejected with 400 when it does not decode or carries a negative limit.
func (s *Server) scoreHandler(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		s.logger.Warn("Failed to read score request", "error", err)
	}

	var req scoreRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusOK, s.scorer.ScoreJSON(nil, nil))
		return
	}

	signal, ok := scorer.DecodeSignal(req.Signal)
	if !ok {
		c.JSON(http.StatusOK, s.scorer.ScoreJSON(nil, nil))
		return
	}

	var requirements *models.PageTypeRequirements
	if len(req.Requirements) > 0 && string(req.Requirements) != "null" {
		merged, err := s.scorer.MergeRequirements(signal.PageType, req.Requirements)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid requirements", err)
			return
		}
		requirements = &merged
	}

	c.JSON(http.StatusOK, s.scorer.Score(signal, requirements))
}

// requirementsHandler returns the effective requirements table
func (s *Server) requirementsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"language":     s.scorer.Language(),
		"requirements": s.scorer.Requirements(),
	})
}

// pageTypeRequirementsHandler returns one record. Unknown page types get the other record.
func (s *Server) pageTypeRequirementsHandler(c *gin.Context) {
	pageType := models.ParsePageType(c.Param("pageType"))
	c.JSON(http.StatusOK, gin.H{
		"pageType":     pageType,
		"requirements": s.scorer.RequirementsFor(pageType),
	})
}
