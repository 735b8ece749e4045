// Package controllers holds the gin handlers. Handlers report failures with
// c.Error and leave rendering to middleware.ErrorHandler.
package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/models"
	"github.com/ZacIsrael/dev-camper-api/query"
	"github.com/ZacIsrael/dev-camper-api/services"
)

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondPage[T any](c *gin.Context, page *services.Page[T], q query.Query) {
	data, err := query.Project(page.Items, q.Select)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      len(data),
		"pagination": page.Pagination,
		"data":       data,
	})
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			_ = c.Error(errs.E(errs.ErrValidation, "Request body is required"))
		} else {
			_ = c.Error(errs.Wrap(errs.ErrValidation, err, "Invalid request body"))
		}
		return false
	}
	return true
}

// paramID parses an object id path parameter. Malformed ids cannot match
// any record and are reported as not found.
func paramID(c *gin.Context, name string) (bson.ObjectID, bool) {
	raw := c.Param(name)
	id, err := bson.ObjectIDFromHex(raw)
	if err != nil {
		_ = c.Error(errs.E(errs.ErrNotFound, "Resource not found with id of %s", raw))
		return bson.ObjectID{}, false
	}
	return id, true
}

// Filterable fields per collection, read from the model tags.
var (
	bootcampFields = query.FieldsOf[models.Bootcamp]()
	courseFields   = query.FieldsOf[models.Course]()
	reviewFields   = query.FieldsOf[models.Review]()
	userFields     = query.FieldsOf[models.User]()
)

func parseQuery(c *gin.Context, fields query.Fields) (query.Query, bool) {
	q, err := query.Parse(c.Request.URL.Query(), fields)
	if err != nil {
		_ = c.Error(err)
		return query.Query{}, false
	}
	return q, true
}

func fail(c *gin.Context, err error) {
	_ = c.Error(err)
}
