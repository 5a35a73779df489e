package api

import (
	"alcyxob/gymtracker/internal/domain"
	"alcyxob/gymtracker/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateExerciseDefinitionRequest defines the expected JSON for creating a definition.
type CreateExerciseDefinitionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"` // Optional, defaults to ""
}

// ExerciseDefinitionResponse is the DTO for returning a definition.
type ExerciseDefinitionResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MapExerciseDefinitionToResponse converts a domain.ExerciseDefinition to its DTO.
func MapExerciseDefinitionToResponse(def *domain.ExerciseDefinition) ExerciseDefinitionResponse {
	if def == nil {
		return ExerciseDefinitionResponse{}
	}
	return ExerciseDefinitionResponse{
		ID:          def.ID,
		UserID:      def.UserID,
		Name:        def.Name,
		Description: def.Description,
		CreatedAt:   def.CreatedAt,
	}
}

// MapExerciseDefinitionsToResponse converts a slice; the result is never nil.
func MapExerciseDefinitionsToResponse(defs []domain.ExerciseDefinition) []ExerciseDefinitionResponse {
	responses := make([]ExerciseDefinitionResponse, len(defs))
	for i := range defs {
		responses[i] = MapExerciseDefinitionToResponse(&defs[i])
	}
	return responses
}

// --- Handler Methods ---

// CreateDefinition godoc
// @Summary Create an exercise definition
// @Description Adds an exercise to the authenticated user's catalog.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body CreateExerciseDefinitionRequest true "Definition details"
// @Success 201 {object} ExerciseDefinitionResponse
// @Failure 400 {object} gin.H "Exercise name is required"
// @Failure 409 {object} gin.H "Duplicate name"
// @Router /exercise-definitions [post]
func (h *ExerciseHandler) CreateDefinition(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req CreateExerciseDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	def, err := h.exerciseService.CreateDefinition(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, "Exercise name is required.")
		case errors.Is(err, service.ErrExerciseNameTaken):
			abortWithError(c, http.StatusConflict, "An exercise with this name already exists.")
		default:
			abortWithInternalError(c, err, "Failed to create exercise definition")
		}
		return
	}

	c.JSON(http.StatusCreated, MapExerciseDefinitionToResponse(def))
}

// ListDefinitions godoc
// @Summary List exercise definitions
// @Description Returns the authenticated user's catalog ordered by name.
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ExerciseDefinitionResponse
// @Router /exercise-definitions [get]
func (h *ExerciseHandler) ListDefinitions(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	defs, err := h.exerciseService.ListDefinitions(c.Request.Context(), userID)
	if err != nil {
		abortWithInternalError(c, err, "Failed to retrieve exercise definitions")
		return
	}
	c.JSON(http.StatusOK, MapExerciseDefinitionsToResponse(defs))
}
