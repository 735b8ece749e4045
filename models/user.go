package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type User struct {
	ID                  bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                string        `bson:"name" json:"name" validate:"required"`
	Email               string        `bson:"email" json:"email" validate:"required,email"`
	Role                Role          `bson:"role" json:"role" validate:"required,role"`
	Password            string        `bson:"password,omitempty" json:"-" validate:"required,min=6"` // hidden from reads
	ResetPasswordToken  string        `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpire *time.Time    `bson:"resetPasswordExpire,omitempty" json:"-"`
	CreatedAt           time.Time     `bson:"createdAt" json:"createdAt"`
}

// UserHiddenFields are excluded from every read unless asked for explicitly.
var UserHiddenFields = []string{"password"}
