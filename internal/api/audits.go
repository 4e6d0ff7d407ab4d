package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"pageQualityGO/internal/models"
	"pageQualityGO/internal/repository"
)

// requestedPageType maps an optional page type field. Empty means detect.
func requestedPageType(raw string) models.PageType {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return models.ParsePageType(raw)
}

// auditHandler scrapes, scores and stores one URL
func (s *Server) auditHandler(c *gin.Context) {
	var req models.AuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.Analyzer.RequestTimeout)
	defer cancel()

	s.logger.Info("Auditing URL", "url", req.URL, "page_type", req.PageType)
	signal, err := s.analyzer.ScrapePage(ctx, req.URL, requestedPageType(req.PageType))
	if err != nil {
		s.logger.Error("Failed to audit URL", "url", req.URL, "error", err)
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Failed to audit URL: %s", req.URL), err)
		return
	}

	result := s.scorer.Score(signal, nil)
	snapshot := models.NewAuditSnapshot(*signal, result)

	// A lost snapshot does not fail the audit
	if err := s.repo.SaveAudit(c.Request.Context(), snapshot); err != nil {
		s.logger.Error("Failed to save audit", "url", snapshot.URL, "error", err)
	}

	c.JSON(http.StatusOK, snapshot)
}

// batchAuditHandler audits several URLs with the batch auditor's limits
func (s *Server) batchAuditHandler(c *gin.Context) {
	var req models.BatchAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}
	if len(req.URLs) > s.config.Batch.MaxURLs {
		respondError(c, http.StatusBadRequest,
			fmt.Sprintf("Too many URLs: %d, at most %d per batch", len(req.URLs), s.config.Batch.MaxURLs), nil)
		return
	}

	ctx := c.Request.Context()
	items := s.batch.AuditURLs(ctx, req.URLs, requestedPageType(req.PageType))

	failed := 0
	for _, item := range items {
		if item.Result == nil {
			failed++
			continue
		}
		snapshot := models.NewAuditSnapshot(*item.Signal, item.Result)
		if err := s.repo.SaveAudit(ctx, snapshot); err != nil {
			s.logger.Error("Failed to save audit", "url", snapshot.URL, "error", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(items),
		"failed": failed,
		"items":  items,
	})
}

// listAuditsHandler returns recent snapshots, optionally for one URL
func (s *Server) listAuditsHandler(c *gin.Context) {
	limit := queryLimit(c)
	ctx := c.Request.Context()

	var (
		audits []*models.AuditSnapshot
		err    error
	)
	if url := strings.TrimSpace(c.Query("url")); url != "" {
		audits, err = s.repo.GetAuditsByURL(ctx, url, limit)
	} else {
		audits, err = s.repo.GetRecentAudits(ctx, limit)
	}
	if err != nil {
		s.logger.Error("Failed to get audits", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to get audits", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(audits),
		"audits": audits,
	})
}

// getAuditHandler returns one snapshot
func (s *Server) getAuditHandler(c *gin.Context) {
	id := c.Param("id")

	audit, err := s.repo.GetAudit(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			respondError(c, http.StatusBadRequest, "Invalid audit ID", err)
			return
		}
		s.logger.Error("Failed to get audit", "id", id, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to get audit", err)
		return
	}

	if audit == nil {
		respondError(c, http.StatusNotFound, "Audit not found", nil)
		return
	}

	c.JSON(http.StatusOK, audit)
}
