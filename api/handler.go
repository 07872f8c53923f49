package api

import (
	"fmt"
	"net/http"
	"os"

	"webpbatch/config"
	"webpbatch/run"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	manager *run.Manager
	cfg     *config.Config
}

func NewHandler(m *run.Manager, cfg *config.Config) *Handler {
	return &Handler{
		manager: m,
		cfg:     cfg,
	}
}

type RunRequest struct {
	SourceDir string `json:"sourceDir" form:"sourceDir" binding:"required"`
	DestDir   string `json:"destDir" form:"destDir" binding:"required"`
	// Quality overrides the configured default when present.
	Quality *int `json:"quality" form:"quality"`
}

// handleCreateRun accepts a batch run and queues it for background
// processing. The source directory is validated here so a configuration
// mistake surfaces as a 400 instead of a run that fails later.
func (h *Handler) handleCreateRun(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info, err := os.Stat(req.SourceDir)
	if err != nil || !info.IsDir() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("source directory not found: %s", req.SourceDir)})
		return
	}

	quality := h.cfg.Quality
	if req.Quality != nil {
		quality = *req.Quality
	}

	r, err := h.manager.Submit(req.SourceDir, req.DestDir, quality)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"runId": r.ID})
}

// handleListRuns lists all known runs.
func (h *Handler) handleListRuns(c *gin.Context) {
	runs := []run.Run{} // serialize as [] rather than null when empty
	for _, r := range h.manager.List() {
		runs = append(runs, r.Snapshot())
	}
	c.JSON(http.StatusOK, runs)
}

// handleGetRunStatus retrieves one run with its progress, per-file failure
// log, and final summary once complete.
func (h *Handler) handleGetRunStatus(c *gin.Context) {
	runID := c.Param("runId")
	r, found := h.manager.Get(runID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}
	c.JSON(http.StatusOK, r.Snapshot())
}

// handleCancelRun cancels a queued or processing run.
func (h *Handler) handleCancelRun(c *gin.Context) {
	runID := c.Param("runId")
	if err := h.manager.Cancel(runID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Run cancellation requested"})
}
