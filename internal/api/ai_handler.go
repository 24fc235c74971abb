package api

import (
	"net/http"

	"alcyxob/fitness-routines/internal/domain"
	"alcyxob/fitness-routines/internal/service"

	"github.com/gin-gonic/gin"
)

// AIHandler exposes generation. Nothing here is persisted.
type AIHandler struct {
	generationService service.GenerationService
}

func NewAIHandler(generationService service.GenerationService) *AIHandler {
	return &AIHandler{generationService: generationService}
}

type AlternativesRequest struct {
	Count int `json:"count"`
}

type AlternativesResponse struct {
	Alternatives []domain.ExerciseDraft `json:"alternatives"`
}

type ChatRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

// GenerateRoutine godoc
// @Summary Generate a routine draft
// @Description The draft is returned, not saved. POST it to /routines to keep it.
// @Tags AI
// @Accept json
// @Produce json
// @Param params body domain.GenerationParams true "Generation parameters"
// @Success 200 {object} domain.RoutineDraft
// @Failure 400 {object} gin.H "Invalid parameters"
// @Failure 502 {object} gin.H "Generation failed"
// @Router /ai/routines [post]
func (h *AIHandler) GenerateRoutine(c *gin.Context) {
	var params domain.GenerationParams
	if !bindJSON(c, &params) {
		return
	}
	draft, err := h.generationService.GenerateRoutine(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// SuggestAlternatives returns replacement candidates for one exercise.
func (h *AIHandler) SuggestAlternatives(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "exerciseId")
	if !ok {
		return
	}
	var req AlternativesRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	alternatives, err := h.generationService.SuggestAlternatives(c.Request.Context(), userID, exerciseID, req.Count)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, AlternativesResponse{Alternatives: alternatives})
}

func (h *AIHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if !bindJSON(c, &req) {
		return
	}
	answer, err := h.generationService.Chat(c.Request.Context(), req.Prompt)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ChatResponse{Answer: answer})
}
