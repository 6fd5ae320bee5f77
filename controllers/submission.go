package controllers

import (
	"code-review-api/middleware"
	"code-review-api/services"

	"github.com/gin-gonic/gin"
)

type CreateSubmissionRequest struct {
	ProjectID uint   `json:"project_id"`
	Code      string `json:"code"`
}

type UpdateSubmissionRequest struct {
	Code string `json:"code"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type SubmissionController struct {
	submissions *services.SubmissionService
}

func NewSubmissionController(submissions *services.SubmissionService) *SubmissionController {
	return &SubmissionController{submissions: submissions}
}

func (ctl *SubmissionController) Create(c *gin.Context) {
	var req CreateSubmissionRequest
	if !bindJSON(c, &req) {
		return
	}
	submission, err := ctl.submissions.Create(c.Request.Context(), middleware.CurrentIdentity(c), services.SubmissionInput{
		ProjectID: req.ProjectID,
		Code:      req.Code,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, submission, "Submission created successfully")
}

func (ctl *SubmissionController) List(c *gin.Context) {
	submissions, err := ctl.submissions.List(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, submissions)
}

func (ctl *SubmissionController) ListMine(c *gin.Context) {
	submissions, err := ctl.submissions.ListMine(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, submissions)
}

func (ctl *SubmissionController) ListByStatus(c *gin.Context) {
	submissions, err := ctl.submissions.ListByStatus(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, submissions)
}

func (ctl *SubmissionController) Get(c *gin.Context) {
	submissionID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	submission, err := ctl.submissions.Get(c.Request.Context(), middleware.CurrentIdentity(c), submissionID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, submission)
}

func (ctl *SubmissionController) Update(c *gin.Context) {
	submissionID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req UpdateSubmissionRequest
	if !bindJSON(c, &req) {
		return
	}
	submission, err := ctl.submissions.UpdateCode(c.Request.Context(), middleware.CurrentIdentity(c), submissionID, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, submission)
}

func (ctl *SubmissionController) Delete(c *gin.Context) {
	submissionID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ctl.submissions.Delete(c.Request.Context(), middleware.CurrentIdentity(c), submissionID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Submission deleted successfully")
}

// SetStatus overrides the status without recording a review.
func (ctl *SubmissionController) SetStatus(c *gin.Context) {
	submissionID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req SetStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	submission, err := ctl.submissions.ForceSetStatus(c.Request.Context(), middleware.CurrentIdentity(c), submissionID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, submission)
}

func (ctl *SubmissionController) History(c *gin.Context) {
	submissionID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	history, err := ctl.submissions.History(c.Request.Context(), middleware.CurrentIdentity(c), submissionID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, history)
}
