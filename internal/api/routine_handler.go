package api

import (
	"net/http"

	"alcyxob/fitness-routines/internal/domain"
	"alcyxob/fitness-routines/internal/service"

	"github.com/gin-gonic/gin"
)

// RoutineHandler serves routines and their days.
type RoutineHandler struct {
	routineService service.RoutineService
}

func NewRoutineHandler(routineService service.RoutineService) *RoutineHandler {
	return &RoutineHandler{routineService: routineService}
}

type RenameRoutineRequest struct {
	Name string `json:"name" binding:"required"`
}

// === Routines ===

// ListRoutines godoc
// @Summary List the user's routines
// @Description Routines without days, or with an empty day, are left out.
// @Tags Routines
// @Produce json
// @Success 200 {array} service.RoutineView
// @Router /routines [get]
func (h *RoutineHandler) ListRoutines(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	routines, err := h.routineService.ListRoutines(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, routines)
}

// CreateRoutine godoc
// @Summary Save a routine
// @Description Accepts a hand-written routine or a draft returned by /ai/routines.
// @Tags Routines
// @Accept json
// @Produce json
// @Param routine body domain.RoutineDraft true "Routine"
// @Success 201 {object} service.RoutineView
// @Failure 400 {object} gin.H "Invalid routine"
// @Router /routines [post]
func (h *RoutineHandler) CreateRoutine(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var draft domain.RoutineDraft
	if !bindJSON(c, &draft) {
		return
	}
	routine, err := h.routineService.CreateRoutine(c.Request.Context(), userID, draft)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, routine)
}

func (h *RoutineHandler) GetRoutine(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	routineID, ok := pathID(c, "routineId")
	if !ok {
		return
	}
	routine, err := h.routineService.GetRoutine(c.Request.Context(), userID, routineID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, routine)
}

func (h *RoutineHandler) RenameRoutine(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	routineID, ok := pathID(c, "routineId")
	if !ok {
		return
	}
	var req RenameRoutineRequest
	if !bindJSON(c, &req) {
		return
	}
	routine, err := h.routineService.RenameRoutine(c.Request.Context(), userID, routineID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, routine)
}

// DeleteRoutine removes the routine with all of its days, exercises and videos.
func (h *RoutineHandler) DeleteRoutine(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	routineID, ok := pathID(c, "routineId")
	if !ok {
		return
	}
	if err := h.routineService.DeleteRoutine(c.Request.Context(), userID, routineID); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RoutineHandler) GetProgress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	routineID, ok := pathID(c, "routineId")
	if !ok {
		return
	}
	progress, err := h.routineService.GetProgress(c.Request.Context(), userID, routineID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// ResetRoutine clears the completed flag of every exercise in the routine.
func (h *RoutineHandler) ResetRoutine(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	routineID, ok := pathID(c, "routineId")
	if !ok {
		return
	}
	routine, err := h.routineService.ResetRoutine(c.Request.Context(), userID, routineID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, routine)
}

// === Days ===

func (h *RoutineHandler) AddDay(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	routineID, ok := pathID(c, "routineId")
	if !ok {
		return
	}
	var draft domain.DayDraft
	if !bindJSON(c, &draft) {
		return
	}
	day, err := h.routineService.AddDay(c.Request.Context(), userID, routineID, draft)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, day)
}

func (h *RoutineHandler) UpdateDay(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	dayID, ok := pathID(c, "dayId")
	if !ok {
		return
	}
	var patch domain.DayPatch
	if !bindJSON(c, &patch) {
		return
	}
	day, err := h.routineService.UpdateDay(c.Request.Context(), userID, dayID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (h *RoutineHandler) DeleteDay(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	dayID, ok := pathID(c, "dayId")
	if !ok {
		return
	}
	if err := h.routineService.DeleteDay(c.Request.Context(), userID, dayID); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RoutineHandler) ResetDay(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	dayID, ok := pathID(c, "dayId")
	if !ok {
		return
	}
	day, err := h.routineService.ResetDay(c.Request.Context(), userID, dayID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (h *RoutineHandler) AddExercise(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	dayID, ok := pathID(c, "dayId")
	if !ok {
		return
	}
	var draft domain.ExerciseDraft
	if !bindJSON(c, &draft) {
		return
	}
	exercise, err := h.routineService.AddExercise(c.Request.Context(), userID, dayID, draft)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}
