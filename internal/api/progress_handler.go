package api

import (
	"net/http"

	"alcyxob/fitness-routines/internal/domain"
	"alcyxob/fitness-routines/internal/service"

	"github.com/gin-gonic/gin"
)

// ProgressHandler serves the per-user progress log.
type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// ListEntries returns the log newest first.
func (h *ProgressHandler) ListEntries(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	entries, err := h.progressService.ListEntries(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *ProgressHandler) CreateEntry(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var entry domain.ProgressEntry
	if !bindJSON(c, &entry) {
		return
	}
	created, err := h.progressService.CreateEntry(c.Request.Context(), userID, entry)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ProgressHandler) UpdateEntry(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	entryID, ok := pathID(c, "entryId")
	if !ok {
		return
	}
	var patch domain.ProgressEntryPatch
	if !bindJSON(c, &patch) {
		return
	}
	entry, err := h.progressService.UpdateEntry(c.Request.Context(), userID, entryID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *ProgressHandler) DeleteEntry(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	entryID, ok := pathID(c, "entryId")
	if !ok {
		return
	}
	if err := h.progressService.DeleteEntry(c.Request.Context(), userID, entryID); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearEntries deletes the whole log.
func (h *ProgressHandler) ClearEntries(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	deleted, err := h.progressService.ClearEntries(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
