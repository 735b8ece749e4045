package database

import (
	"context"
	"slices"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/models"
	"github.com/ZacIsrael/dev-camper-api/query"
	"github.com/ZacIsrael/dev-camper-api/services"
)

var (
	_ services.UserRepository              = (*Collection[models.User])(nil)
	_ services.Repository[models.Bootcamp] = (*Collection[models.Bootcamp])(nil)
	_ services.Repository[models.Course]   = (*Collection[models.Course])(nil)
	_ services.Repository[models.Review]   = (*Collection[models.Review])(nil)
)

// Collection is a typed handle over one MongoDB collection.
type Collection[T any] struct {
	col    *mongo.Collection
	hidden []string
}

// NewCollection returns a handle that leaves the hidden fields out of every
// read unless FindOneWithHidden is used.
func NewCollection[T any](db *mongo.Database, name string, hidden ...string) *Collection[T] {
	return &Collection[T]{col: db.Collection(name), hidden: hidden}
}

// Raw exposes the underlying driver collection.
func (c *Collection[T]) Raw() *mongo.Collection {
	return c.col
}

func (c *Collection[T]) projection(selected bson.M) bson.M {
	if selected != nil {
		p := bson.M{}
		for k, v := range selected {
			if !slices.Contains(c.hidden, k) {
				p[k] = v
			}
		}
		return p
	}
	if len(c.hidden) == 0 {
		return nil
	}
	p := bson.M{}
	for _, f := range c.hidden {
		p[f] = 0
	}
	return p
}

func (c *Collection[T]) List(ctx context.Context, q query.Query) ([]T, int64, error) {
	filter := q.Filter
	if filter == nil {
		filter = bson.M{}
	}

	total, err := c.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errs.FromStore(err)
	}

	opts := options.Find().SetSkip(int64(q.Skip()))
	if len(q.Sort) > 0 {
		opts.SetSort(q.Sort)
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	if p := c.projection(q.Projection()); p != nil {
		opts.SetProjection(p)
	}

	items, err := c.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (c *Collection[T]) Find(ctx context.Context, filter bson.M) ([]T, error) {
	opts := options.Find()
	if p := c.projection(nil); p != nil {
		opts.SetProjection(p)
	}
	return c.find(ctx, filter, opts)
}

func (c *Collection[T]) find(ctx context.Context, filter bson.M, opts *options.FindOptionsBuilder) ([]T, error) {
	cursor, err := c.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, errs.FromStore(err)
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	for cursor.Next(ctx) {
		var it T
		if err := cursor.Decode(&it); err != nil {
			return nil, errs.FromStore(err)
		}
		items = append(items, it)
	}
	if err := cursor.Err(); err != nil {
		return nil, errs.FromStore(err)
	}
	return items, nil
}

func (c *Collection[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	opts := options.FindOne()
	if p := c.projection(nil); p != nil {
		opts.SetProjection(p)
	}
	var it T
	if err := c.col.FindOne(ctx, filter, opts).Decode(&it); err != nil {
		return nil, errs.FromStore(err)
	}
	return &it, nil
}

func (c *Collection[T]) FindOneWithHidden(ctx context.Context, filter bson.M) (*T, error) {
	var it T
	if err := c.col.FindOne(ctx, filter).Decode(&it); err != nil {
		return nil, errs.FromStore(err)
	}
	return &it, nil
}

func (c *Collection[T]) FindByID(ctx context.Context, id bson.ObjectID) (*T, error) {
	return c.FindOne(ctx, bson.M{"_id": id})
}

func (c *Collection[T]) Insert(ctx context.Context, doc *T) error {
	if _, err := c.col.InsertOne(ctx, doc); err != nil {
		return errs.FromStore(err)
	}
	return nil
}

func (c *Collection[T]) UpdateByID(ctx context.Context, id bson.ObjectID, set bson.M, unset ...string) (*T, error) {
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		u := bson.M{}
		for _, f := range unset {
			u[f] = ""
		}
		update["$unset"] = u
	}
	if len(update) == 0 {
		return c.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if p := c.projection(nil); p != nil {
		opts.SetProjection(p)
	}
	var it T
	if err := c.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&it); err != nil {
		return nil, errs.FromStore(err)
	}
	return &it, nil
}

func (c *Collection[T]) DeleteByID(ctx context.Context, id bson.ObjectID) (*T, error) {
	opts := options.FindOneAndDelete()
	if p := c.projection(nil); p != nil {
		opts.SetProjection(p)
	}
	var it T
	if err := c.col.FindOneAndDelete(ctx, bson.M{"_id": id}, opts).Decode(&it); err != nil {
		return nil, errs.FromStore(err)
	}
	return &it, nil
}

func (c *Collection[T]) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	res, err := c.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, errs.FromStore(err)
	}
	return res.DeletedCount, nil
}

func (c *Collection[T]) Count(ctx context.Context, filter bson.M) (int64, error) {
	n, err := c.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, errs.FromStore(err)
	}
	return n, nil
}

func (c *Collection[T]) Average(ctx context.Context, filter bson.M, field string) (float64, bool, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avg", Value: bson.D{{Key: "$avg", Value: "$" + field}}},
		}}},
	}
	cursor, err := c.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, false, errs.FromStore(err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Avg *float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, false, errs.FromStore(err)
	}
	if len(rows) == 0 || rows[0].Avg == nil {
		return 0, false, nil
	}
	return *rows[0].Avg, true, nil
}

// Collections bundles the handles the services need.
type Collections struct {
	Users     *Collection[models.User]
	Bootcamps *Collection[models.Bootcamp]
	Courses   *Collection[models.Course]
	Reviews   *Collection[models.Review]
}

func NewCollections(db *mongo.Database) *Collections {
	return &Collections{
		Users:     NewCollection[models.User](db, UsersCollection, models.UserHiddenFields...),
		Bootcamps: NewCollection[models.Bootcamp](db, BootcampsCollection),
		Courses:   NewCollection[models.Course](db, CoursesCollection),
		Reviews:   NewCollection[models.Review](db, ReviewsCollection),
	}
}
