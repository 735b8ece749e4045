package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Review struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string        `bson:"title" json:"title" validate:"required,max=100"`
	Text      string        `bson:"text" json:"text" validate:"required"`
	Rating    int           `bson:"rating" json:"rating" validate:"required,min=1,max=10"`
	Bootcamp  bson.ObjectID `bson:"bootcamp" json:"bootcamp" validate:"required"`
	User      bson.ObjectID `bson:"user" json:"user" validate:"required"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`

	BootcampInfo *BootcampSummary `bson:"-" json:"bootcampInfo,omitempty"`
}
