package controllers

import (
	"code-review-api/middleware"
	"code-review-api/services"

	"github.com/gin-gonic/gin"
)

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type AddMemberRequest struct {
	UserID uint `json:"user_id"`
}

type ProjectController struct {
	projects    *services.ProjectService
	submissions *services.SubmissionService
}

func NewProjectController(projects *services.ProjectService, submissions *services.SubmissionService) *ProjectController {
	return &ProjectController{projects: projects, submissions: submissions}
}

func (ctl *ProjectController) Create(c *gin.Context) {
	var req CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := ctl.projects.Create(c.Request.Context(), middleware.CurrentIdentity(c), services.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, project, "Project created successfully")
}

func (ctl *ProjectController) List(c *gin.Context) {
	projects, err := ctl.projects.List(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, projects)
}

func (ctl *ProjectController) ListOwned(c *gin.Context) {
	projects, err := ctl.projects.ListOwned(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, projects)
}

func (ctl *ProjectController) ListMemberships(c *gin.Context) {
	projects, err := ctl.projects.ListMemberships(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, projects)
}

func (ctl *ProjectController) Get(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	project, err := ctl.projects.Get(c.Request.Context(), middleware.CurrentIdentity(c), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, project)
}

func (ctl *ProjectController) Update(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := ctl.projects.Update(c.Request.Context(), middleware.CurrentIdentity(c), projectID, services.ProjectUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, project)
}

func (ctl *ProjectController) Delete(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ctl.projects.Delete(c.Request.Context(), middleware.CurrentIdentity(c), projectID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Project deleted successfully")
}

func (ctl *ProjectController) ListMembers(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	members, err := ctl.projects.ListMembers(c.Request.Context(), middleware.CurrentIdentity(c), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, members)
}

func (ctl *ProjectController) AddMember(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	member, err := ctl.projects.AddMember(c.Request.Context(), middleware.CurrentIdentity(c), projectID, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, member, "Member added successfully")
}

func (ctl *ProjectController) RemoveMember(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ctl.projects.RemoveMember(c.Request.Context(), middleware.CurrentIdentity(c), projectID, userID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Member removed successfully")
}

func (ctl *ProjectController) ListSubmissions(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	submissions, err := ctl.submissions.ListByProject(c.Request.Context(), middleware.CurrentIdentity(c), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, submissions)
}
