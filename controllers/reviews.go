package controllers

import (
	"code-review-api/middleware"
	"code-review-api/models"
	"code-review-api/services"

	"github.com/gin-gonic/gin"
)

type DecisionRequest struct {
	Comment string `json:"comment"`
}

type CorrectDecisionRequest struct {
	Decision models.Decision `json:"decision"`
}

type ReviewController struct {
	reviews *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{reviews: reviews}
}

func (ctl *ReviewController) decide(c *gin.Context, decision models.Decision, message string) {
	submissionID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req DecisionRequest
	// The comment is optional, so an empty body is accepted.
	if c.Request.ContentLength != 0 {
		if !bindJSON(c, &req) {
			return
		}
	}

	result, err := ctl.reviews.SubmitDecision(c.Request.Context(), middleware.CurrentIdentity(c), submissionID, decision, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, result, message)
}

func (ctl *ReviewController) Approve(c *gin.Context) {
	ctl.decide(c, models.DecisionApproved, "Submission approved")
}

func (ctl *ReviewController) RequestChanges(c *gin.Context) {
	ctl.decide(c, models.DecisionChangesRequested, "Changes requested")
}

func (ctl *ReviewController) ListBySubmission(c *gin.Context) {
	submissionID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	reviews, err := ctl.reviews.ListBySubmission(c.Request.Context(), middleware.CurrentIdentity(c), submissionID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, reviews)
}

func (ctl *ReviewController) Get(c *gin.Context) {
	reviewID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	review, err := ctl.reviews.Get(c.Request.Context(), middleware.CurrentIdentity(c), reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, review)
}

func (ctl *ReviewController) ListMine(c *gin.Context) {
	reviews, err := ctl.reviews.ListMine(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, reviews)
}

func (ctl *ReviewController) Stats(c *gin.Context) {
	stats, err := ctl.reviews.Stats(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}

func (ctl *ReviewController) Correct(c *gin.Context) {
	reviewID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req CorrectDecisionRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := ctl.reviews.CorrectDecision(c.Request.Context(), middleware.CurrentIdentity(c), reviewID, req.Decision)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}
