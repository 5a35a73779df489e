package api

import (
	"alcyxob/gymtracker/internal/service"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

// CredentialsRequest is the body of both /register and /login.
// Presence is checked by the services, not by binding tags.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResponse carries only a confirmation; the id is returned by /login.
type RegisterResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  string `json:"userId"`
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body CredentialsRequest true "Registration details"
// @Success 201 {object} RegisterResponse "User created successfully"
// @Failure 400 {object} gin.H "Username and password are required"
// @Failure 409 {object} gin.H "Username already taken"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}

	if _, err := h.authService.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, "Username and password are required.")
		case errors.Is(err, service.ErrUserAlreadyExists):
			abortWithError(c, http.StatusConflict, "Username already taken.")
		default:
			abortWithInternalError(c, err, "Could not process registration")
		}
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{Message: "User registered successfully."})
}

// Login godoc
// @Summary Log in a user
// @Description Authenticates a user and returns a bearer token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 400 {object} gin.H "Malformed JSON body"
// @Failure 401 {object} gin.H "Unauthorized (missing or invalid credentials)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, "Invalid credentials.")
			return
		}
		abortWithInternalError(c, err, "Could not process login")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Message: "Login successful",
		Token:   token,
		UserID:  user.ID,
	})
}

// bindCredentials decodes the body. An empty body counts as empty credentials
// so the service decides the status; malformed JSON is a 400.
func bindCredentials(c *gin.Context) (CredentialsRequest, bool) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return req, false
	}
	return req, true
}
