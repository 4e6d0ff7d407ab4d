package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"pageQualityGO/internal/models"
	"pageQualityGO/internal/rank"
	"pageQualityGO/internal/urlextract"
)

var errNoPosition = errors.New("either results or position is required")

func normalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if i := strings.Index(domain, "://"); i >= 0 {
		domain = domain[i+3:]
	}
	domain = strings.TrimRight(domain, "/")
	return strings.TrimPrefix(domain, "www.")
}

// rankCheckHandler records a keyword position and compares it with the previous check
func (s *Server) rankCheckHandler(c *gin.Context) {
	var req models.RankCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}
	if len(req.Results) == 0 && req.Position == nil {
		respondError(c, http.StatusBadRequest, "Invalid request", errNoPosition)
		return
	}

	check := &models.RankCheck{
		Keyword: strings.TrimSpace(req.Keyword),
		Domain:  normalizeDomain(req.Domain),
	}

	if len(req.Results) > 0 {
		if pos, matched, ok := rank.FindPosition(req.Results, check.Domain); ok {
			check.Position = &pos
			check.MatchedURL = matched
		}
	} else if *req.Position > 0 {
		pos := *req.Position
		check.Position = &pos
	}

	ctx := c.Request.Context()
	previous, err := s.repo.GetLatestRankCheck(ctx, check.Keyword, check.Domain)
	if err != nil {
		s.logger.Error("Failed to get previous rank check", "keyword", check.Keyword, "domain", check.Domain, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to get previous rank check", err)
		return
	}

	var previousPosition *int
	if previous != nil {
		previousPosition = previous.Position
	}
	check.Change = rank.Compare(previousPosition, check.Position)

	if err := s.repo.SaveRankCheck(ctx, check); err != nil {
		s.logger.Error("Failed to save rank check", "keyword", check.Keyword, "domain", check.Domain, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to save rank check", err)
		return
	}

	c.JSON(http.StatusOK, check)
}

// rankHistoryHandler returns the checks of one keyword and domain, newest first
func (s *Server) rankHistoryHandler(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	domain := normalizeDomain(c.Query("domain"))
	if keyword == "" || domain == "" {
		respondError(c, http.StatusBadRequest, "keyword and domain are required", nil)
		return
	}

	checks, err := s.repo.GetRankHistory(c.Request.Context(), keyword, domain, queryLimit(c))
	if err != nil {
		s.logger.Error("Failed to get rank history", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to get rank history", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(checks),
		"checks": checks,
	})
}

// extractLinksHandler lists the URLs found in free text
func (s *Server) extractLinksHandler(c *gin.Context) {
	var req models.LinkExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	var urls []string
	if strings.TrimSpace(req.Host) != "" {
		urls = urlextract.ExtractForHost(req.Text, req.Host)
	} else {
		urls = urlextract.Extract(req.Text)
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(urls),
		"urls":  urls,
	})
}
