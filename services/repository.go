package services

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ZacIsrael/dev-camper-api/models"
	"github.com/ZacIsrael/dev-camper-api/query"
)

// Repository is the store contract the services are written against.
// Implementations report a missing record as errs.ErrNotFound and unique
// index violations as errs.ErrConflict.
type Repository[T any] interface {
	// List returns one page matching q together with the total match count.
	List(ctx context.Context, q query.Query) ([]T, int64, error)
	Find(ctx context.Context, filter bson.M) ([]T, error)
	FindOne(ctx context.Context, filter bson.M) (*T, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*T, error)
	Insert(ctx context.Context, doc *T) error
	// UpdateByID applies set and unset and returns the updated record.
	UpdateByID(ctx context.Context, id bson.ObjectID, set bson.M, unset ...string) (*T, error)
	// DeleteByID removes the record and returns it as it was.
	DeleteByID(ctx context.Context, id bson.ObjectID) (*T, error)
	DeleteMany(ctx context.Context, filter bson.M) (int64, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	// Average is the mean of field over records matching filter; ok is
	// false when nothing matched.
	Average(ctx context.Context, filter bson.M, field string) (avg float64, ok bool, err error)
}

type UserRepository interface {
	Repository[models.User]
	// FindOneWithHidden also loads fields that reads normally exclude,
	// such as the password hash.
	FindOneWithHidden(ctx context.Context, filter bson.M) (*models.User, error)
}
