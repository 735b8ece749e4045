package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ZacIsrael/dev-camper-api/dto"
	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/middleware"
	"github.com/ZacIsrael/dev-camper-api/services"
)

type BootcampController struct {
	svc *services.BootcampService
}

func NewBootcampController(svc *services.BootcampService) *BootcampController {
	return &BootcampController{svc: svc}
}

// GET /api/v1/bootcamps
func (ctl *BootcampController) GetBootcamps() gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := parseQuery(c, bootcampFields)
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

// GET /api/v1/bootcamps/:id
func (ctl *BootcampController) GetBootcamp() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		b, err := ctl.svc.Get(c.Request.Context(), id)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, b)
	}
}

// POST /api/v1/bootcamps
func (ctl *BootcampController) CreateBootcamp() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateBootcampDTO
		if !bindJSON(c, &body) {
			return
		}
		b, err := body.Model()
		if err != nil {
			fail(c, err)
			return
		}
		b, err = ctl.svc.Create(c.Request.Context(), b, middleware.CurrentUser(c))
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusCreated, b)
	}
}

// PUT /api/v1/bootcamps/:id
func (ctl *BootcampController) UpdateBootcamp() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var body dto.UpdateBootcampDTO
		if !bindJSON(c, &body) {
			return
		}
		b, err := ctl.svc.Update(c.Request.Context(), id, body, middleware.CurrentUser(c))
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, b)
	}
}

// DELETE /api/v1/bootcamps/:id
func (ctl *BootcampController) DeleteBootcamp() gin.HandlerFunc {
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

// GET /api/v1/bootcamps/radius/:zipcode/:distance
func (ctl *BootcampController) GetBootcampsInRadius() gin.HandlerFunc {
	return func(c *gin.Context) {
		distance, err := strconv.ParseFloat(c.Param("distance"), 64)
		if err != nil {
			fail(c, errs.E(errs.ErrValidation, "distance must be a number of miles"))
			return
		}
		items, err := ctl.svc.WithinRadius(c.Request.Context(), c.Param("zipcode"), distance)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(items), "data": items})
	}
}

// PUT /api/v1/bootcamps/:id/photo
func (ctl *BootcampController) UploadPhoto() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		file, err := c.FormFile("file")
		if err != nil {
			fail(c, errs.E(errs.ErrValidation, "Please upload a file"))
			return
		}
		b, err := ctl.svc.UploadPhoto(c.Request.Context(), id, file, middleware.CurrentUser(c))
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, b.Photo)
	}
}
