package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const DefaultPhoto = "no-photo.jpg"

var Careers = []string{
	"Web Development",
	"Mobile Development",
	"UI/UX",
	"Data Science",
	"Business",
	"Other",
}

// Location is a GeoJSON point plus the address parts returned by the geocoder.
type Location struct {
	Type             string    `bson:"type" json:"type"`
	Coordinates      []float64 `bson:"coordinates" json:"coordinates"` // [lng, lat]
	FormattedAddress string    `bson:"formattedAddress,omitempty" json:"formattedAddress,omitempty"`
	Street           string    `bson:"street,omitempty" json:"street,omitempty"`
	City             string    `bson:"city,omitempty" json:"city,omitempty"`
	State            string    `bson:"state,omitempty" json:"state,omitempty"`
	Zipcode          string    `bson:"zipcode,omitempty" json:"zipcode,omitempty"`
	Country          string    `bson:"country,omitempty" json:"country,omitempty"`
}

type Bootcamp struct {
	ID            bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string        `bson:"name" json:"name" validate:"required,max=50"`
	Slug          string        `bson:"slug" json:"slug"`
	Description   string        `bson:"description" json:"description" validate:"required,max=500"`
	Website       string        `bson:"website,omitempty" json:"website,omitempty" validate:"omitempty,weburl"`
	Phone         string        `bson:"phone,omitempty" json:"phone,omitempty" validate:"omitempty,max=20"`
	Email         string        `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Address       string        `bson:"address" json:"address,omitempty" validate:"required"`
	Location      *Location     `bson:"location,omitempty" json:"location,omitempty"`
	Careers       []string      `bson:"careers" json:"careers" validate:"required,min=1,dive,career"`
	AverageRating *float64      `bson:"averageRating,omitempty" json:"averageRating,omitempty" validate:"omitempty,min=1,max=10"`
	AverageCost   *float64      `bson:"averageCost,omitempty" json:"averageCost,omitempty"`
	Photo         string        `bson:"photo" json:"photo"`
	Housing       bool          `bson:"housing" json:"housing"`
	JobAssistance bool          `bson:"jobAssistance" json:"jobAssistance"`
	JobGuarantee  bool          `bson:"jobGuarantee" json:"jobGuarantee"`
	AcceptGi      bool          `bson:"acceptGi" json:"acceptGi"`
	User          bson.ObjectID `bson:"user" json:"user"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`

	Courses []Course `bson:"-" json:"courses,omitempty"`
}

// BootcampSummary is what courses and reviews embed for their parent.
type BootcampSummary struct {
	ID          bson.ObjectID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
}

func (b *Bootcamp) Summary() *BootcampSummary {
	return &BootcampSummary{ID: b.ID, Name: b.Name, Description: b.Description}
}

func (b *Bootcamp) OwnedBy(userID bson.ObjectID) bool {
	return b.User == userID
}
