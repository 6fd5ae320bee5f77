package controllers

import (
	"strconv"

	"code-review-api/apperrors"
	"code-review-api/middleware"
	"code-review-api/services"

	"github.com/gin-gonic/gin"
)

type CreateCommentRequest struct {
	LineNumber int    `json:"line_number"`
	Content    string `json:"content"`
}

type UpdateCommentRequest struct {
	LineNumber *int    `json:"line_number"`
	Content    *string `json:"content"`
}

type CommentController struct {
	comments *services.CommentService
}

func NewCommentController(comments *services.CommentService) *CommentController {
	return &CommentController{comments: comments}
}

func (ctl *CommentController) Create(c *gin.Context) {
	submissionID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := ctl.comments.Create(c.Request.Context(), middleware.CurrentIdentity(c), submissionID, services.CommentInput{
		LineNumber: req.LineNumber,
		Content:    req.Content,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, comment, "Comment created successfully")
}

func (ctl *CommentController) ListBySubmission(c *gin.Context) {
	submissionID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	comments, err := ctl.comments.ListBySubmission(c.Request.Context(), middleware.CurrentIdentity(c), submissionID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, comments)
}

func (ctl *CommentController) ListByLine(c *gin.Context) {
	submissionID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	line, err := strconv.Atoi(c.Param("lineNumber"))
	if err != nil {
		respondError(c, apperrors.Validation("Invalid line number"))
		return
	}
	comments, err := ctl.comments.ListByLine(c.Request.Context(), middleware.CurrentIdentity(c), submissionID, line)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, comments)
}

func (ctl *CommentController) List(c *gin.Context) {
	comments, err := ctl.comments.List(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, comments)
}

func (ctl *CommentController) ListMine(c *gin.Context) {
	comments, err := ctl.comments.ListMine(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, comments)
}

func (ctl *CommentController) Get(c *gin.Context) {
	commentID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	comment, err := ctl.comments.Get(c.Request.Context(), middleware.CurrentIdentity(c), commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, comment)
}

func (ctl *CommentController) Update(c *gin.Context) {
	commentID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req UpdateCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := ctl.comments.Update(c.Request.Context(), middleware.CurrentIdentity(c), commentID, services.CommentUpdate{
		LineNumber: req.LineNumber,
		Content:    req.Content,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, comment)
}

func (ctl *CommentController) Delete(c *gin.Context) {
	commentID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ctl.comments.Delete(c.Request.Context(), middleware.CurrentIdentity(c), commentID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Comment deleted successfully")
}
