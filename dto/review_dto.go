package dto

import (
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/models"
	"github.com/ZacIsrael/dev-camper-api/validation"
)

type CreateReviewDTO struct {
	Title  string `json:"title"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

func (d CreateReviewDTO) Model(bootcampID, userID bson.ObjectID) (*models.Review, error) {
	r := &models.Review{
		Title:    strings.TrimSpace(d.Title),
		Text:     strings.TrimSpace(d.Text),
		Rating:   d.Rating,
		Bootcamp: bootcampID,
		User:     userID,
	}
	if err := validation.Struct(r); err != nil {
		return nil, err
	}
	return r, nil
}

type UpdateReviewDTO struct {
	Title  *string `json:"title"`
	Text   *string `json:"text"`
	Rating *int    `json:"rating"`
}

func (d UpdateReviewDTO) Apply(r *models.Review) (bson.M, error) {
	set := bson.M{}
	if d.Title != nil {
		r.Title = strings.TrimSpace(*d.Title)
		set["title"] = r.Title
	}
	if d.Text != nil {
		r.Text = strings.TrimSpace(*d.Text)
		set["text"] = r.Text
	}
	if d.Rating != nil {
		r.Rating = *d.Rating
		set["rating"] = r.Rating
	}

	if len(set) == 0 {
		return nil, errs.E(errs.ErrValidation, "no updates provided")
	}
	if err := validation.Struct(r); err != nil {
		return nil, err
	}
	return set, nil
}
