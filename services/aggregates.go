package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/models"
)

// Aggregates keeps Bootcamp.AverageCost and Bootcamp.AverageRating equal to
// the mean over the bootcamp's courses and reviews.
type Aggregates struct {
	bootcamps Repository[models.Bootcamp]
	courses   Repository[models.Course]
	reviews   Repository[models.Review]
}

func NewAggregates(bootcamps Repository[models.Bootcamp], courses Repository[models.Course], reviews Repository[models.Review]) *Aggregates {
	return &Aggregates{bootcamps: bootcamps, courses: courses, reviews: reviews}
}

func (a *Aggregates) RecomputeAverageCost(ctx context.Context, bootcampID bson.ObjectID) error {
	avg, ok, err := a.courses.Average(ctx, bson.M{"bootcamp": bootcampID}, "tuition")
	if err != nil {
		return err
	}
	return a.store(ctx, bootcampID, "averageCost", avg, ok)
}

func (a *Aggregates) RecomputeAverageRating(ctx context.Context, bootcampID bson.ObjectID) error {
	avg, ok, err := a.reviews.Average(ctx, bson.M{"bootcamp": bootcampID}, "rating")
	if err != nil {
		return err
	}
	return a.store(ctx, bootcampID, "averageRating", avg, ok)
}

// store writes the unrounded mean, or unsets the field when no children
// remain. A bootcamp deleted in the meantime is not an error.
func (a *Aggregates) store(ctx context.Context, bootcampID bson.ObjectID, field string, avg float64, ok bool) error {
	var err error
	if ok {
		_, err = a.bootcamps.UpdateByID(ctx, bootcampID, bson.M{field: avg})
	} else {
		_, err = a.bootcamps.UpdateByID(ctx, bootcampID, nil, field)
	}
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	return err
}
