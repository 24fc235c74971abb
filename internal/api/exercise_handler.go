package api

import (
	"net/http"

	"alcyxob/fitness-routines/internal/domain"
	"alcyxob/fitness-routines/internal/metrics"
	"alcyxob/fitness-routines/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler serves exercises and their videos.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
	metrics         *metrics.Manager
}

// NewExerciseHandler creates a new ExerciseHandler. metricsManager may be nil.
func NewExerciseHandler(exerciseService service.ExerciseService, metricsManager *metrics.Manager) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService, metrics: metricsManager}
}

// --- DTOs ---

type SetVideosRequest struct {
	Videos []service.VideoInput `json:"videos"`
}

type AddVideoRequest struct {
	URL       string `json:"url" binding:"required"`
	IsCurrent bool   `json:"isCurrent"`
}

type SwitchVideoRequest struct {
	Direction service.SwitchDirection `json:"direction"`
}

type UploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmUploadRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// === Exercises ===

func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "exerciseId")
	if !ok {
		return
	}
	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), userID, exerciseID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// UpdateExercise godoc
// @Summary Partially update an exercise
// @Description Only the provided fields change. Changing sets, reps, weight, their units or notes also logs a progress entry.
// @Tags Exercises
// @Accept json
// @Produce json
// @Param exerciseId path string true "Exercise ID"
// @Param patch body domain.ExercisePatch true "Fields to change"
// @Success 200 {object} domain.Exercise
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{exerciseId} [patch]
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "exerciseId")
	if !ok {
		return
	}
	var patch domain.ExercisePatch
	if !bindJSON(c, &patch) {
		return
	}
	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), userID, exerciseID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "exerciseId")
	if !ok {
		return
	}
	if err := h.exerciseService.DeleteExercise(c.Request.Context(), userID, exerciseID); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleCompleted flips the completed flag server side.
func (h *ExerciseHandler) ToggleCompleted(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "exerciseId")
	if !ok {
		return
	}
	exercise, err := h.exerciseService.ToggleCompleted(c.Request.Context(), userID, exerciseID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.CounterExerciseToggles.Inc()
	}
	c.JSON(http.StatusOK, exercise)
}

// === Videos ===

// SetVideos replaces every video of the exercise.
func (h *ExerciseHandler) SetVideos(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "exerciseId")
	if !ok {
		return
	}
	var req SetVideosRequest
	if !bindJSON(c, &req) {
		return
	}
	exercise, err := h.exerciseService.SetVideos(c.Request.Context(), userID, exerciseID, req.Videos)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *ExerciseHandler) AddVideo(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "exerciseId")
	if !ok {
		return
	}
	var req AddVideoRequest
	if !bindJSON(c, &req) {
		return
	}
	exercise, err := h.exerciseService.AddVideo(c.Request.Context(), userID, exerciseID, service.VideoInput{
		URL:       req.URL,
		IsCurrent: req.IsCurrent,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

func (h *ExerciseHandler) SwitchVideo(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "exerciseId")
	if !ok {
		return
	}
	var req SwitchVideoRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	exercise, err := h.exerciseService.SwitchVideo(c.Request.Context(), userID, exerciseID, req.Direction)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// SearchVideos attaches form videos found by the video search API.
func (h *ExerciseHandler) SearchVideos(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "exerciseId")
	if !ok {
		return
	}
	exercise, err := h.exerciseService.SearchVideos(c.Request.Context(), userID, exerciseID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// RequestUploadURL godoc
// @Summary Get a presigned URL to upload an exercise video
// @Description The client PUTs the file to uploadUrl, then calls confirm-upload with objectKey.
// @Tags Videos
// @Accept json
// @Produce json
// @Param exerciseId path string true "Exercise ID"
// @Param request body UploadURLRequest true "Video content type"
// @Success 200 {object} service.UploadTicket
// @Failure 400 {object} gin.H "Unsupported content type"
// @Failure 503 {object} gin.H "Uploads not configured"
// @Router /exercises/{exerciseId}/videos/upload-url [post]
func (h *ExerciseHandler) RequestUploadURL(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "exerciseId")
	if !ok {
		return
	}
	var req UploadURLRequest
	if !bindJSON(c, &req) {
		return
	}
	ticket, err := h.exerciseService.RequestUploadURL(c.Request.Context(), userID, exerciseID, req.ContentType)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *ExerciseHandler) ConfirmUpload(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "exerciseId")
	if !ok {
		return
	}
	var req ConfirmUploadRequest
	if !bindJSON(c, &req) {
		return
	}
	exercise, err := h.exerciseService.ConfirmUpload(c.Request.Context(), userID, exerciseID, req.ObjectKey)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// UpdateVideo responds with the owning exercise so the client sees the new current flags.
func (h *ExerciseHandler) UpdateVideo(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	videoID, ok := pathID(c, "videoId")
	if !ok {
		return
	}
	var patch domain.VideoPatch
	if !bindJSON(c, &patch) {
		return
	}
	exercise, err := h.exerciseService.UpdateVideo(c.Request.Context(), userID, videoID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *ExerciseHandler) DeleteVideo(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	videoID, ok := pathID(c, "videoId")
	if !ok {
		return
	}
	exercise, err := h.exerciseService.DeleteVideo(c.Request.Context(), userID, videoID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}
