package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quick-cart-101/AuthService/internal/middleware"
	"github.com/quick-cart-101/AuthService/internal/service"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// errorResponse writes the structured error body used by every endpoint:
// {timestamp, status, error, message}.
func errorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"timestamp": time.Now().Format(time.RFC3339),
		"status":    status,
		"error":     http.StatusText(status),
		"message":   message,
	})
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req struct {
		Name          string `json:"name" binding:"required"`
		Email         string `json:"email" binding:"required,email"`
		Password      string `json:"password" binding:"required,min=6"`
		ContactNumber string `json:"contact_number" binding:"required"`
		Address       string `json:"address"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	user, err := h.service.SignUp(c.Request.Context(), service.SignUpInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		ContactNumber: req.ContactNumber,
		Address:       req.Address,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			errorResponse(c, http.StatusConflict, err.Error())
			return
		}
		log.Printf("Error during signup: %v", err)
		errorResponse(c, http.StatusInternalServerError, "Failed to register user")
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	session, user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotRegistered):
			errorResponse(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidCredentials):
			errorResponse(c, http.StatusUnauthorized, err.Error())
		default:
			log.Printf("Error during login: %v", err)
			errorResponse(c, http.StatusInternalServerError, "Failed to login")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   session.Token,
		"status":  session.Status,
		"user_id": user.ID,
		"email":   user.Email,
		"roles":   user.Roles,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), c.GetString(middleware.AuthTokenKey)); err != nil {
		log.Printf("Error during logout: %v", err)
		errorResponse(c, http.StatusInternalServerError, "Failed to logout")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) CurrentUser(c *gin.Context) {
	user, err := h.service.CurrentUser(c.Request.Context(), c.GetString(middleware.AuthTokenKey))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			errorResponse(c, http.StatusUnauthorized, err.Error())
		case errors.Is(err, service.ErrUserNotRegistered):
			errorResponse(c, http.StatusNotFound, err.Error())
		default:
			log.Printf("Error resolving current user: %v", err)
			errorResponse(c, http.StatusInternalServerError, "Failed to resolve current user")
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken := c.PostForm("refreshToken")
	if refreshToken == "" {
		errorResponse(c, http.StatusBadRequest, "refreshToken form field is required")
		return
	}

	session, err := h.service.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			errorResponse(c, http.StatusUnauthorized, err.Error())
		case errors.Is(err, service.ErrUserNotRegistered):
			errorResponse(c, http.StatusNotFound, err.Error())
		default:
			log.Printf("Error during token refresh: %v", err)
			errorResponse(c, http.StatusInternalServerError, "Failed to refresh token")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  session.Token,
		"status": session.Status,
	})
}

// --- Admin Routes ---

func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		log.Printf("Error listing users: %v", err)
		errorResponse(c, http.StatusInternalServerError, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AuthHandler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrUserNotRegistered) {
			errorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("Error deleting user: %v", err)
		errorResponse(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/signup", h.SignUp)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
	}

	// Routes requiring a bearer token
	sessionGroup := rg.Group("/auth")
	sessionGroup.Use(authMW)
	{
		sessionGroup.POST("/logout", h.Logout)
		sessionGroup.GET("/current-user", h.CurrentUser)
	}

	// Admin-only user administration
	adminGroup := rg.Group("/auth/users")
	adminGroup.Use(authMW)
	adminGroup.Use(adminMW)
	{
		adminGroup.GET("", h.ListUsers)
		adminGroup.DELETE("/:id", h.DeleteUser)
	}
}
