package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ZacIsrael/dev-camper-api/dto"
	"github.com/ZacIsrael/dev-camper-api/middleware"
	"github.com/ZacIsrael/dev-camper-api/services"
)

type CourseController struct {
	svc *services.CourseService
}

func NewCourseController(svc *services.CourseService) *CourseController {
	return &CourseController{svc: svc}
}

// GET /api/v1/courses
func (ctl *CourseController) GetCourses() gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := parseQuery(c, courseFields)
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

// GET /api/v1/bootcamps/:id/courses
func (ctl *CourseController) GetBootcampCourses() gin.HandlerFunc {
	return func(c *gin.Context) {
		bootcampID, ok := paramID(c, "id")
		if !ok {
			return
		}
		q, ok := parseQuery(c, courseFields)
		if !ok {
			return
		}
		page, err := ctl.svc.ListForBootcamp(c.Request.Context(), bootcampID, q)
		if err != nil {
			fail(c, err)
			return
		}
		respondPage(c, page, q)
	}
}

// GET /api/v1/courses/:id
func (ctl *CourseController) GetCourse() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		course, err := ctl.svc.Get(c.Request.Context(), id)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, course)
	}
}

// POST /api/v1/bootcamps/:id/courses
func (ctl *CourseController) AddCourse() gin.HandlerFunc {
	return func(c *gin.Context) {
		bootcampID, ok := paramID(c, "id")
		if !ok {
			return
		}
		var body dto.CreateCourseDTO
		if !bindJSON(c, &body) {
			return
		}
		actor := middleware.CurrentUser(c)
		course, err := body.Model(bootcampID, actor.ID)
		if err != nil {
			fail(c, err)
			return
		}
		course, err = ctl.svc.Create(c.Request.Context(), course, actor)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusCreated, course)
	}
}

// PUT /api/v1/courses/:id
func (ctl *CourseController) UpdateCourse() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var body dto.UpdateCourseDTO
		if !bindJSON(c, &body) {
			return
		}
		course, err := ctl.svc.Update(c.Request.Context(), id, body, middleware.CurrentUser(c))
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, course)
	}
}

// DELETE /api/v1/courses/:id
func (ctl *CourseController) DeleteCourse() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		if _, err := ctl.svc.Delete(c.Request.Context(), id, middleware.CurrentUser(c)); err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{})
	}
}
