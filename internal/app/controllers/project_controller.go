package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/projectdesk/internal/app/models/dto"
	"github.com/yigit/projectdesk/internal/app/services"
	"github.com/yigit/projectdesk/internal/middleware"
)

// ProjectController handles registration with a project, mentor decisions and project views
type ProjectController struct {
	registrationService *services.RegistrationService
	projectService      services.ProjectService
	feedService         *services.FeedService
	logger              zerolog.Logger
}

// NewProjectController creates a new ProjectController
func NewProjectController(
	registrationService *services.RegistrationService,
	projectService services.ProjectService,
	feedService *services.FeedService,
	logger zerolog.Logger,
) *ProjectController {
	return &ProjectController{
		registrationService: registrationService,
		projectService:      projectService,
		feedService:         feedService,
		logger:              logger,
	}
}

// SubmitRegistration registers a student together with a project
// @Summary Register with a project
// @Description Creates the student account, the project and a request to the named mentor in one step. Nothing is stored when any part fails.
// @Tags projects
// @Accept json
// @Produce json
// @Param request body dto.SubmitRegistrationRequest true "Student, project and roster"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse} "Student registered"
// @Failure 400 {object} dto.ErrorResponse "Validation error, unknown or ambiguous mentor, duplicate email or roll number"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects/submit-registration [post]
func (c *ProjectController) SubmitRegistration(ctx *gin.Context) {
	var req dto.SubmitRegistrationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.registrationService.SubmitRegistration(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp))
}

// TeacherProjects lists the projects mentored by the actor
// @Summary Mentored projects
// @Description Every project whose mentor is the actor, with leader and documents (oldest first)
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ProjectResponse} "Projects"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Teachers only"
// @Router /projects/teacher [get]
func (c *ProjectController) TeacherProjects(ctx *gin.Context) {
	actor, ok := principal(ctx)
	if !ok {
		return
	}

	resp, err := c.projectService.TeacherProjects(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// RespondToRequest accepts or rejects a mentorship request
// @Summary Respond to mentor request
// @Description Moves a pending project to accepted or rejected and notifies the leader
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body dto.MentorStatusRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=dto.MentorStatusResponse} "Decision recorded"
// @Failure 400 {object} dto.ErrorResponse "Status must be accepted or rejected"
// @Failure 403 {object} dto.ErrorResponse "Not the project's mentor"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Failure 409 {object} dto.ErrorResponse "Request already answered"
// @Router /projects/{id}/status [put]
func (c *ProjectController) RespondToRequest(ctx *gin.Context) {
	actor, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.MentorStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.projectService.RespondToMentorRequest(ctx.Request.Context(), actor, ctx.Param("id"), req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// SetRemarks adds or replaces the mentor's final remark
// @Summary Set final remarks
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body dto.FinalRemarksRequest true "Remark"
// @Success 200 {object} dto.APIResponse{data=dto.RemarksResponse} "Remark saved"
// @Failure 400 {object} dto.ErrorResponse "Remark required"
// @Failure 403 {object} dto.ErrorResponse "Not the project's mentor"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id}/remarks [put]
func (c *ProjectController) SetRemarks(ctx *gin.Context) {
	actor, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.FinalRemarksRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.projectService.SetFinalRemarks(ctx.Request.Context(), actor, ctx.Param("id"), req.FinalRemarks)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// MyDashboard renders the project led by the actor
// @Summary Student dashboard
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse} "Dashboard"
// @Failure 403 {object} dto.ErrorResponse "Students only"
// @Failure 404 {object} dto.ErrorResponse "No project led by the actor"
// @Router /projects/my-dashboard [get]
func (c *ProjectController) MyDashboard(ctx *gin.Context) {
	actor, ok := principal(ctx)
	if !ok {
		return
	}

	resp, err := c.projectService.StudentDashboard(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// UpdateDescription replaces the description of the actor's project
// @Summary Update project description
// @Description An empty string clears the description
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.DescriptionRequest true "Description"
// @Success 200 {object} dto.APIResponse{data=dto.DescriptionResponse} "Description saved"
// @Failure 400 {object} dto.ErrorResponse "Description field missing"
// @Failure 404 {object} dto.ErrorResponse "No project led by the actor"
// @Router /projects/description [put]
func (c *ProjectController) UpdateDescription(ctx *gin.Context) {
	actor, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.DescriptionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.projectService.UpdateDescription(ctx.Request.Context(), actor, *req.Description)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// Assignments returns the role-dependent aggregate view
// @Summary Projects and feed
// @Description Teachers get mentored projects and pending documents. Students get their projects and the five latest review decisions.
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AssignmentsResponse} "Projects and feed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /projects/all-assignments [get]
func (c *ProjectController) Assignments(ctx *gin.Context) {
	actor, ok := principal(ctx)
	if !ok {
		return
	}

	resp, err := c.feedService.Assignments(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}
