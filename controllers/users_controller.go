package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ZacIsrael/dev-camper-api/dto"
	"github.com/ZacIsrael/dev-camper-api/services"
)

// UserController serves the admin-only user management routes.
type UserController struct {
	svc *services.UserService
}

func NewUserController(svc *services.UserService) *UserController {
	return &UserController{svc: svc}
}

// GET /api/v1/users
func (ctl *UserController) GetUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := parseQuery(c, userFields)
		if !ok {
			return
		}
		page, err := ctl.svc.List(c.Request.Context(), q)
		if err != nil {
			fail(c, err)
			return
		}
		respondPage(c, page, q)
	}
}

// GET /api/v1/users/:id
func (ctl *UserController) GetUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		u, err := ctl.svc.Get(c.Request.Context(), id)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, u)
	}
}

// POST /api/v1/users
func (ctl *UserController) CreateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateUserDTO
		if !bindJSON(c, &body) {
			return
		}
		u, err := body.Model()
		if err != nil {
			fail(c, err)
			return
		}
		u, err = ctl.svc.Create(c.Request.Context(), u)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusCreated, u)
	}
}

// PUT /api/v1/users/:id
func (ctl *UserController) UpdateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var body dto.UpdateUserDTO
		if !bindJSON(c, &body) {
			return
		}
		u, err := ctl.svc.Update(c.Request.Context(), id, body)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, u)
	}
}

// DELETE /api/v1/users/:id
func (ctl *UserController) DeleteUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		if err := ctl.svc.Delete(c.Request.Context(), id); err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{})
	}
}
