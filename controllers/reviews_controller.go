package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ZacIsrael/dev-camper-api/dto"
	"github.com/ZacIsrael/dev-camper-api/middleware"
	"github.com/ZacIsrael/dev-camper-api/services"
)

type ReviewController struct {
	svc *services.ReviewService
}

func NewReviewController(svc *services.ReviewService) *ReviewController {
	return &ReviewController{svc: svc}
}

// GET /api/v1/reviews
func (ctl *ReviewController) GetReviews() gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := parseQuery(c, reviewFields)
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

// GET /api/v1/bootcamps/:id/reviews
func (ctl *ReviewController) GetBootcampReviews() gin.HandlerFunc {
	return func(c *gin.Context) {
		bootcampID, ok := paramID(c, "id")
		if !ok {
			return
		}
		q, ok := parseQuery(c, reviewFields)
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

// GET /api/v1/reviews/:id
func (ctl *ReviewController) GetReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		review, err := ctl.svc.Get(c.Request.Context(), id)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, review)
	}
}

// POST /api/v1/bootcamps/:id/reviews
func (ctl *ReviewController) AddReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		bootcampID, ok := paramID(c, "id")
		if !ok {
			return
		}
		var body dto.CreateReviewDTO
		if !bindJSON(c, &body) {
			return
		}
		actor := middleware.CurrentUser(c)
		review, err := body.Model(bootcampID, actor.ID)
		if err != nil {
			fail(c, err)
			return
		}
		review, err = ctl.svc.Create(c.Request.Context(), review, actor)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusCreated, review)
	}
}

// PUT /api/v1/reviews/:id
func (ctl *ReviewController) UpdateReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var body dto.UpdateReviewDTO
		if !bindJSON(c, &body) {
			return
		}
		review, err := ctl.svc.Update(c.Request.Context(), id, body, middleware.CurrentUser(c))
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, review)
	}
}

// DELETE /api/v1/reviews/:id
func (ctl *ReviewController) DeleteReview() gin.HandlerFunc {
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
