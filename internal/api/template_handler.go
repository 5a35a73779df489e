package api

import (
	"alcyxob/gymtracker/internal/domain"
	"alcyxob/gymtracker/internal/service"
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// TemplateHandler holds the template service dependency.
type TemplateHandler struct {
	templateService service.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// --- DTOs ---

// ExerciseRef is one entry of a template's exercises list. Clients send
// either the definition id as a string or a definition object with an "id".
type ExerciseRef string

func (r *ExerciseRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = ExerciseRef(id)
		return nil
	}

	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return errors.New("exercise reference must be an id string or an object with an id")
	}
	*r = ExerciseRef(obj.ID)
	return nil
}

// TemplateRequest is the body of template create and update.
type TemplateRequest struct {
	Name      string        `json:"name"`
	Exercises []ExerciseRef `json:"exercises"`
}

// exerciseIDs drops empty references.
func (r TemplateRequest) exerciseIDs() []string {
	ids := make([]string, 0, len(r.Exercises))
	for _, ref := range r.Exercises {
		if ref != "" {
			ids = append(ids, string(ref))
		}
	}
	return ids
}

// TemplateResponse carries the materialized exercises, not the raw refs.
type TemplateResponse struct {
	ID        string                       `json:"id"`
	UserID    string                       `json:"userId"`
	Name      string                       `json:"name"`
	Exercises []ExerciseDefinitionResponse `json:"exercises"`
	CreatedAt time.Time                    `json:"createdAt"`
	UpdatedAt time.Time                    `json:"updatedAt"`
}

func MapTemplateToResponse(t *domain.Template) TemplateResponse {
	if t == nil {
		return TemplateResponse{}
	}
	return TemplateResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		Name:      t.Name,
		Exercises: MapExerciseDefinitionsToResponse(t.Exercises),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func MapTemplatesToResponse(templates []domain.Template) []TemplateResponse {
	responses := make([]TemplateResponse, len(templates))
	for i := range templates {
		responses[i] = MapTemplateToResponse(&templates[i])
	}
	return responses
}

// --- Handler Methods ---

// ListTemplates godoc
// @Summary List templates
// @Description Returns the authenticated user's templates ordered by name.
// @Tags Templates
// @Produce json
// @Security BearerAuth
// @Success 200 {array} TemplateResponse
// @Router /templates [get]
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	templates, err := h.templateService.ListTemplates(c.Request.Context(), userID)
	if err != nil {
		abortWithInternalError(c, err, "Failed to retrieve templates")
		return
	}
	c.JSON(http.StatusOK, MapTemplatesToResponse(templates))
}

// CreateTemplate godoc
// @Summary Create a template
// @Tags Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param template body TemplateRequest true "Template name and exercise references"
// @Success 201 {object} TemplateResponse
// @Failure 400 {object} gin.H "Template name is required"
// @Router /templates [post]
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	template, err := h.templateService.CreateTemplate(c.Request.Context(), userID, req.Name, req.exerciseIDs())
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, "Template name is required.")
			return
		}
		abortWithInternalError(c, err, "Failed to create template")
		return
	}
	c.JSON(http.StatusCreated, MapTemplateToResponse(template))
}

// GetTemplate godoc
// @Summary Get a template
// @Tags Templates
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Success 200 {object} TemplateResponse
// @Failure 404 {object} gin.H "Template not found or unauthorized"
// @Router /templates/{id} [get]
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	template, err := h.templateService.GetTemplate(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleLookupError(c, err, "Failed to retrieve template")
		return
	}
	c.JSON(http.StatusOK, MapTemplateToResponse(template))
}

// UpdateTemplate godoc
// @Summary Replace a template
// @Description Replaces the name and the whole exercise list.
// @Tags Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Param template body TemplateRequest true "New name and exercise references"
// @Success 200 {object} TemplateResponse
// @Failure 400 {object} gin.H "Template name is required"
// @Failure 404 {object} gin.H "Template not found or unauthorized"
// @Router /templates/{id} [put]
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	template, err := h.templateService.UpdateTemplate(c.Request.Context(), userID, c.Param("id"), req.Name, req.exerciseIDs())
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, "Template name is required.")
			return
		}
		h.handleLookupError(c, err, "Failed to update template")
		return
	}
	c.JSON(http.StatusOK, MapTemplateToResponse(template))
}

// DeleteTemplate godoc
// @Summary Delete a template
// @Tags Templates
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Success 204 "No Content"
// @Failure 404 {object} gin.H "Template not found or unauthorized"
// @Router /templates/{id} [delete]
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.templateService.DeleteTemplate(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.handleLookupError(c, err, "Failed to delete template")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TemplateHandler) handleLookupError(c *gin.Context, err error, message string) {
	if errors.Is(err, service.ErrTemplateNotFound) {
		abortWithError(c, http.StatusNotFound, "Template not found or unauthorized.")
		return
	}
	abortWithInternalError(c, err, message)
}
