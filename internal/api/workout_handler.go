package api

import (
	"alcyxob/gymtracker/internal/domain"
	"alcyxob/gymtracker/internal/service"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

// WorkoutDate accepts the common ISO 8601 forms: extended or basic offsets,
// optional seconds and fractions, or a bare YYYY-MM-DD day. Forms without an
// offset are read as UTC.
type WorkoutDate struct {
	time.Time
}

// Fractional seconds are accepted after any layout that has seconds.
var workoutDateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04",
	"2006-01-02",
}

func (d *WorkoutDate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range workoutDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("date %q is not an ISO 8601 timestamp", raw)
}

type SetRequest struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

type CompletedExerciseRequest struct {
	ExerciseDefinitionID string       `json:"exerciseDefinitionId"`
	ExerciseName         string       `json:"exerciseName"`
	Sets                 []SetRequest `json:"sets"`
}

// CreateWorkoutRequest leaves presence checks to the service: a missing date
// decodes to the zero time and a missing list to nil.
type CreateWorkoutRequest struct {
	Date               WorkoutDate                `json:"date"`
	CompletedExercises []CompletedExerciseRequest `json:"completedExercises"`
}

func (r CreateWorkoutRequest) toDomain() []domain.CompletedExercise {
	if r.CompletedExercises == nil {
		return nil
	}
	exercises := make([]domain.CompletedExercise, len(r.CompletedExercises))
	for i, ex := range r.CompletedExercises {
		sets := make([]domain.Set, len(ex.Sets))
		for j, s := range ex.Sets {
			sets[j] = domain.Set{Reps: s.Reps, Weight: s.Weight}
		}
		exercises[i] = domain.CompletedExercise{
			ExerciseDefinitionID: ex.ExerciseDefinitionID,
			ExerciseName:         ex.ExerciseName,
			Sets:                 sets,
		}
	}
	return exercises
}

type SetResponse struct {
	ID     string  `json:"id"`
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

type CompletedExerciseResponse struct {
	ID                   string        `json:"id"`
	ExerciseDefinitionID string        `json:"exerciseDefinitionId"`
	ExerciseName         string        `json:"exerciseName"`
	Sets                 []SetResponse `json:"sets"`
}

type WorkoutSessionResponse struct {
	ID                 string                      `json:"id"`
	UserID             string                      `json:"userId"`
	Date               time.Time                   `json:"date"`
	CompletedExercises []CompletedExerciseResponse `json:"completedExercises"`
	CreatedAt          time.Time                   `json:"createdAt"`
}

type LastPerformanceResponse struct {
	Sets []SetResponse `json:"sets"`
	Date time.Time     `json:"date"`
}

type ExportResponse struct {
	URL          string    `json:"url"`
	ObjectKey    string    `json:"objectKey"`
	SessionCount int       `json:"sessionCount"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func mapSetsToResponse(sets []domain.Set) []SetResponse {
	responses := make([]SetResponse, len(sets))
	for i, s := range sets {
		responses[i] = SetResponse{ID: s.ID, Reps: s.Reps, Weight: s.Weight}
	}
	return responses
}

// MapWorkoutSessionToResponse converts a domain.WorkoutSession to its DTO.
// Nested lists are never nil so clients always see arrays.
func MapWorkoutSessionToResponse(session *domain.WorkoutSession) WorkoutSessionResponse {
	if session == nil {
		return WorkoutSessionResponse{}
	}
	exercises := make([]CompletedExerciseResponse, len(session.CompletedExercises))
	for i, ex := range session.CompletedExercises {
		exercises[i] = CompletedExerciseResponse{
			ID:                   ex.ID,
			ExerciseDefinitionID: ex.ExerciseDefinitionID,
			ExerciseName:         ex.ExerciseName,
			Sets:                 mapSetsToResponse(ex.Sets),
		}
	}
	return WorkoutSessionResponse{
		ID:                 session.ID,
		UserID:             session.UserID,
		Date:               session.Date,
		CompletedExercises: exercises,
		CreatedAt:          session.CreatedAt,
	}
}

func MapWorkoutSessionsToResponse(sessions []domain.WorkoutSession) []WorkoutSessionResponse {
	responses := make([]WorkoutSessionResponse, len(sessions))
	for i := range sessions {
		responses[i] = MapWorkoutSessionToResponse(&sessions[i])
	}
	return responses
}

// --- Handler Methods ---

// ListWorkouts godoc
// @Summary List workout sessions
// @Description Returns the authenticated user's sessions, newest first.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} WorkoutSessionResponse
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	sessions, err := h.workoutService.ListWorkouts(c.Request.Context(), userID)
	if err != nil {
		abortWithInternalError(c, err, "Failed to retrieve workouts")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutSessionsToResponse(sessions))
}

// CreateWorkout godoc
// @Summary Log a workout session
// @Description Stores the session with its exercises and sets in one transaction.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body CreateWorkoutRequest true "Session date and completed exercises"
// @Success 201 {object} WorkoutSessionResponse
// @Failure 400 {object} gin.H "Date and completed exercises are required"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	session, err := h.workoutService.CreateWorkout(c.Request.Context(), userID, req.Date.Time, req.toDomain())
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, "Date and completed exercises are required.")
			return
		}
		abortWithInternalError(c, err, "Failed to save workout session")
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutSessionToResponse(session))
}

// GetWorkout godoc
// @Summary Get a workout session
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} WorkoutSessionResponse
// @Failure 404 {object} gin.H "Workout session not found or unauthorized"
// @Router /workouts/{id} [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	session, err := h.workoutService.GetWorkout(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, "Workout session not found or unauthorized.")
			return
		}
		abortWithInternalError(c, err, "Failed to retrieve workout session")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutSessionToResponse(session))
}

// DeleteWorkout godoc
// @Summary Delete a workout session
// @Tags Workouts
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 204 "No Content"
// @Failure 404 {object} gin.H "Workout session not found or unauthorized"
// @Router /workouts/{id} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.workoutService.DeleteWorkout(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, "Workout session not found or unauthorized.")
			return
		}
		abortWithInternalError(c, err, "Failed to delete workout session")
		return
	}
	c.Status(http.StatusNoContent)
}

// LastPerformance godoc
// @Summary Last recorded sets for an exercise
// @Description Sets from the most recent session containing the exercise definition.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param exerciseDefId path string true "Exercise definition ID"
// @Success 200 {object} LastPerformanceResponse
// @Failure 404 {object} gin.H "No previous data for this exercise found"
// @Router /workouts/last-exercise/{exerciseDefId} [get]
func (h *WorkoutHandler) LastPerformance(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	last, err := h.workoutService.LastPerformance(c.Request.Context(), userID, c.Param("exerciseDefId"))
	if err != nil {
		if errors.Is(err, service.ErrNoPerformanceFound) {
			abortWithError(c, http.StatusNotFound, "No previous data for this exercise found.")
			return
		}
		abortWithInternalError(c, err, "Failed to retrieve last performance")
		return
	}
	c.JSON(http.StatusOK, LastPerformanceResponse{Sets: mapSetsToResponse(last.Sets), Date: last.Date})
}

// ExportWorkouts godoc
// @Summary Export workout history
// @Description Uploads every session as JSON and returns a presigned download URL.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 201 {object} ExportResponse
// @Failure 503 {object} gin.H "Export storage is not configured"
// @Router /workouts/export [post]
func (h *WorkoutHandler) ExportWorkouts(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	export, err := h.workoutService.ExportWorkouts(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrExportUnavailable) {
			abortWithError(c, http.StatusServiceUnavailable, "Workout export is not available.")
			return
		}
		abortWithInternalError(c, err, "Failed to export workouts")
		return
	}
	c.JSON(http.StatusCreated, ExportResponse{
		URL:          export.URL,
		ObjectKey:    export.ObjectKey,
		SessionCount: export.SessionCount,
		ExpiresAt:    export.ExpiresAt,
	})
}
