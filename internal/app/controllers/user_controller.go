package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/projectdesk/internal/app/models/dto"
	"github.com/yigit/projectdesk/internal/app/services"
	"github.com/yigit/projectdesk/internal/middleware"
)

// UserController handles accounts, profiles and persisted notifications
type UserController struct {
	authService         *services.AuthService
	notificationService *services.NotificationService
	logger              zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(authService *services.AuthService, notificationService *services.NotificationService, logger zerolog.Logger) *UserController {
	return &UserController{
		authService:         authService,
		notificationService: notificationService,
		logger:              logger,
	}
}

// Register handles account registration
// @Summary Register a user
// @Description Creates a student (rollNumber and class required) or teacher (designation and employeeId required) account without a project
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Account information"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Validation error or duplicate email, roll number or employee ID"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/register [post]
func (c *UserController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.RegisterUser(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp))
}

// Login handles user login
// @Summary User login
// @Description Authenticates a user and returns an access token
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid email or password"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/login [post]
func (c *UserController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// UpdateProfile changes the actor's name and phone
// @Summary Update profile
// @Description Changes only the fields that are present and non-empty
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Updated profile"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	actor, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.UpdateProfile(ctx.Request.Context(), actor.UserID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// ListNotifications returns the actor's persisted notifications
// @Summary List notifications
// @Description Returns the actor's notifications, newest first, with sender name and project title
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.NotificationResponse} "Notifications"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /users/notifications [get]
func (c *UserController) ListNotifications(ctx *gin.Context) {
	actor, ok := principal(ctx)
	if !ok {
		return
	}

	resp, err := c.notificationService.List(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// MarkNotificationRead flags a notification as read
// @Summary Mark notification read
// @Description Sets isRead on one of the actor's notifications. Repeating the call is harmless.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} dto.APIResponse{data=dto.NotificationResponse} "Updated notification"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the recipient"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /users/notifications/{id}/read [put]
func (c *UserController) MarkNotificationRead(ctx *gin.Context) {
	actor, ok := principal(ctx)
	if !ok {
		return
	}

	resp, err := c.notificationService.MarkRead(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}
