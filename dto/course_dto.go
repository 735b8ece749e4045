package dto

import (
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/models"
	"github.com/ZacIsrael/dev-camper-api/validation"
)

type CreateCourseDTO struct {
	Title                string  `json:"title"`
	Description          string  `json:"description"`
	Weeks                int     `json:"weeks"`
	Tuition              float64 `json:"tuition"`
	MinimumSkill         string  `json:"minimumSkill"`
	ScholarshipAvailable bool    `json:"scholarshipAvailable"`
}

// Model builds a course for bootcampID owned by userID.
func (d CreateCourseDTO) Model(bootcampID, userID bson.ObjectID) (*models.Course, error) {
	c := &models.Course{
		Title:                strings.TrimSpace(d.Title),
		Description:          strings.TrimSpace(d.Description),
		Weeks:                d.Weeks,
		Tuition:              d.Tuition,
		MinimumSkill:         strings.ToLower(strings.TrimSpace(d.MinimumSkill)),
		ScholarshipAvailable: d.ScholarshipAvailable,
		Bootcamp:             bootcampID,
		User:                 userID,
	}
	if err := validation.Struct(c); err != nil {
		return nil, err
	}
	return c, nil
}

type UpdateCourseDTO struct {
	Title                *string  `json:"title"`
	Description          *string  `json:"description"`
	Weeks                *int     `json:"weeks"`
	Tuition              *float64 `json:"tuition"`
	MinimumSkill         *string  `json:"minimumSkill"`
	ScholarshipAvailable *bool    `json:"scholarshipAvailable"`
}

func (d UpdateCourseDTO) Apply(c *models.Course) (bson.M, error) {
	set := bson.M{}
	if d.Title != nil {
		c.Title = strings.TrimSpace(*d.Title)
		set["title"] = c.Title
	}
	if d.Description != nil {
		c.Description = strings.TrimSpace(*d.Description)
		set["description"] = c.Description
	}
	if d.Weeks != nil {
		c.Weeks = *d.Weeks
		set["weeks"] = c.Weeks
	}
	if d.Tuition != nil {
		c.Tuition = *d.Tuition
		set["tuition"] = c.Tuition
	}
	if d.MinimumSkill != nil {
		c.MinimumSkill = strings.ToLower(strings.TrimSpace(*d.MinimumSkill))
		set["minimumSkill"] = c.MinimumSkill
	}
	if d.ScholarshipAvailable != nil {
		c.ScholarshipAvailable = *d.ScholarshipAvailable
		set["scholarshipAvailable"] = c.ScholarshipAvailable
	}

	if len(set) == 0 {
		return nil, errs.E(errs.ErrValidation, "no updates provided")
	}
	if err := validation.Struct(c); err != nil {
		return nil, err
	}
	return set, nil
}
