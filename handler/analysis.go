package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kifouliw-hash/MYMIR-sub000/middleware"
	"github.com/kifouliw-hash/MYMIR-sub000/model"
	"github.com/kifouliw-hash/MYMIR-sub000/pkg/logger"
	"github.com/kifouliw-hash/MYMIR-sub000/service"
)

// maxUploadBytes caps tender uploads at 20 MB.
const maxUploadBytes = 20 << 20

type AnalysisHandler struct {
	store   *service.Store
	extract *service.ExtractService
	llm     *service.LLMService
	report  *service.ReportService
}

func NewAnalysisHandler(store *service.Store, extract *service.ExtractService, llm *service.LLMService, report *service.ReportService) *AnalysisHandler {
	return &AnalysisHandler{
		store:   store,
		extract: extract,
		llm:     llm,
		report:  report,
	}
}

// Upload receives a tender PDF and runs the analysis pipeline: extract
// text, compose the prompt, call the text-generation service, persist the
// result. The uploaded bytes live only for the duration of this request.
func (h *AnalysisHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF files are allowed"})
		return
	}
	if header.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	text, err := h.extract.Extract(data)
	if err != nil {
		logger.Warn(ctx, "text extraction failed", "error", err, "filename", header.Filename)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Document could not be read"})
		return
	}

	title := strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))

	result := h.llm.Analyze(ctx, service.ComposePrompt(text))

	analysis := &model.Analysis{
		ID:     uuid.New().String(),
		UserID: userID,
		Title:  title,
	}

	if result.Success {
		analysis.Status = model.StatusCompleted
		analysis.Analysis = result.Analysis
		analysis.Model = result.Model
		analysis.GeneratedAt = result.GeneratedAt
		analysis.Score = extractScore(result.Analysis)
	} else {
		analysis.Status = model.StatusFailed
		analysis.ErrorMsg = result.Message
	}

	if err := h.store.SaveAnalysis(ctx, analysis); err != nil {
		logger.Error(ctx, "failed to save analysis", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save analysis"})
		return
	}

	logger.Info(ctx, "analysis stored",
		"analysis_id", analysis.ID,
		"status", analysis.Status,
		"score", analysis.Score,
	)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}
	c.JSON(status, analysis)
}

// extractScore pulls the opportunity score out of the structured payload.
// An unparseable payload or a missing score yields 0.
func extractScore(raw string) int {
	parsed := service.ParseAnalysis(raw)
	if parsed.ScoreOpportunite == nil {
		return 0
	}
	score := int(*parsed.ScoreOpportunite)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// List returns the current user's analyses without the analysis body
func (h *AnalysisHandler) List(c *gin.Context) {
	analyses, err := h.store.ListAnalysesByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list analyses", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list analyses"})
		return
	}

	if analyses == nil {
		analyses = []*model.Analysis{}
	}
	c.JSON(http.StatusOK, gin.H{"analyses": analyses})
}

// Get returns a single analysis with its full content
func (h *AnalysisHandler) Get(c *gin.Context) {
	analysis, ok := h.ownedAnalysis(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// Delete removes an analysis
func (h *AnalysisHandler) Delete(c *gin.Context) {
	err := h.store.DeleteAnalysis(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to delete analysis", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete analysis"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Analysis deleted"})
}

// DownloadReport renders the stored analysis as a PDF report and streams
// it as an attachment. The document is fully built before the first byte
// is sent, so a rendering failure still gets a clean error response.
func (h *AnalysisHandler) DownloadReport(c *gin.Context) {
	ctx := c.Request.Context()

	analysis, ok := h.ownedAnalysis(c)
	if !ok {
		return
	}

	user, err := h.store.GetUserByID(ctx, middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	reportBytes, err := h.report.Render(&service.ReportRequest{
		Title:        analysis.Title,
		Score:        analysis.Score,
		AnalysisJSON: analysis.Analysis,
		GeneratedAt:  analysis.GeneratedAt,
		Profile: &model.CompanyProfile{
			CompanyName: user.CompanyName,
			Sector:      user.Sector,
			Headcount:   user.Headcount,
			Revenue:     user.Revenue,
			Country:     user.Country,
		},
	})
	if err != nil {
		logger.Error(ctx, "report rendering failed", "error", err, "analysis_id", analysis.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	filename := service.ReportFilename(analysis.Title)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", reportBytes)
}

// ownedAnalysis loads the analysis from the URL and enforces ownership.
// On failure the response has already been written.
func (h *AnalysisHandler) ownedAnalysis(c *gin.Context) (*model.Analysis, bool) {
	analysis, err := h.store.GetAnalysis(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return nil, false
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to load analysis", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analysis"})
		return nil, false
	}
	if analysis.UserID != middleware.GetUserID(c) {
		// Someone else's record is indistinguishable from a missing one
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return nil, false
	}
	return analysis, true
}
