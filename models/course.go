package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var Skills = []string{"beginner", "intermediate", "advanced"}

type Course struct {
	ID                   bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title                string        `bson:"title" json:"title" validate:"required,max=100"`
	Description          string        `bson:"description" json:"description" validate:"required"`
	Weeks                int           `bson:"weeks" json:"weeks" validate:"required,min=1"`
	Tuition              float64       `bson:"tuition" json:"tuition" validate:"min=0"`
	MinimumSkill         string        `bson:"minimumSkill" json:"minimumSkill" validate:"required,skill"`
	ScholarshipAvailable bool          `bson:"scholarshipAvailable" json:"scholarshipAvailable"`
	Bootcamp             bson.ObjectID `bson:"bootcamp" json:"bootcamp" validate:"required"`
	User                 bson.ObjectID `bson:"user" json:"user" validate:"required"`
	CreatedAt            time.Time     `bson:"createdAt" json:"createdAt"`

	BootcampInfo *BootcampSummary `bson:"-" json:"bootcampInfo,omitempty"`
}
