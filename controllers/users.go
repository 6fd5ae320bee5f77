package controllers

import (
	"code-review-api/middleware"
	"code-review-api/models"
	"code-review-api/services"

	"github.com/gin-gonic/gin"
)

type UpdateUserRequest struct {
	Name  *string      `json:"name"`
	Email *string      `json:"email"`
	Role  *models.Role `json:"role"`
}

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func (ctl *UserController) List(c *gin.Context) {
	users, err := ctl.users.List(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, users)
}

func (ctl *UserController) ListByRole(c *gin.Context) {
	role := models.Role(c.Param("role"))
	users, err := ctl.users.ListByRole(c.Request.Context(), middleware.CurrentIdentity(c), role)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, users)
}

func (ctl *UserController) Get(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	user, err := ctl.users.Get(c.Request.Context(), middleware.CurrentIdentity(c), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, user)
}

func (ctl *UserController) Update(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := ctl.users.Update(c.Request.Context(), middleware.CurrentIdentity(c), userID, services.UserUpdate{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, user)
}

func (ctl *UserController) Delete(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ctl.users.Delete(c.Request.Context(), middleware.CurrentIdentity(c), userID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "User deleted successfully")
}
