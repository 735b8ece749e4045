package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ZacIsrael/dev-camper-api/models"
	"github.com/ZacIsrael/dev-camper-api/query"
)

type ReviewService struct {
	reviews    Repository[models.Review]
	bootcamps  Repository[models.Bootcamp]
	aggregates *Aggregates
	bg         *Background
}

func NewReviewService(reviews Repository[models.Review], bootcamps Repository[models.Bootcamp], aggregates *Aggregates, bg *Background) *ReviewService {
	return &ReviewService{reviews: reviews, bootcamps: bootcamps, aggregates: aggregates, bg: bg}
}

func (s *ReviewService) List(ctx context.Context, q query.Query) (*Page[models.Review], error) {
	items, total, err := s.reviews.List(ctx, q)
	if err != nil {
		return nil, err
	}
	summaries, err := bootcampSummaries(ctx, s.bootcamps, items, func(r models.Review) bson.ObjectID { return r.Bootcamp })
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].BootcampInfo = summaries[items[i].Bootcamp]
	}
	return newPage(items, total, q), nil
}

func (s *ReviewService) ListForBootcamp(ctx context.Context, bootcampID bson.ObjectID, q query.Query) (*Page[models.Review], error) {
	if _, err := s.bootcamps.FindByID(ctx, bootcampID); err != nil {
		return nil, notFound(err, "Bootcamp", bootcampID)
	}
	items, total, err := s.reviews.List(ctx, q.Where("bootcamp", bootcampID))
	if err != nil {
		return nil, err
	}
	return newPage(items, total, q), nil
}

func (s *ReviewService) Get(ctx context.Context, id bson.ObjectID) (*models.Review, error) {
	r, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Review", id)
	}
	summaries, err := bootcampSummaries(ctx, s.bootcamps, []models.Review{*r}, func(r models.Review) bson.ObjectID { return r.Bootcamp })
	if err != nil {
		return nil, err
	}
	r.BootcampInfo = summaries[r.Bootcamp]
	return r, nil
}

// Create stores one review per user and bootcamp; a second attempt is a
// conflict reported by the store.
func (s *ReviewService) Create(ctx context.Context, r *models.Review, actor *models.User) (*models.Review, error) {
	if _, err := s.bootcamps.FindByID(ctx, r.Bootcamp); err != nil {
		return nil, notFound(err, "Bootcamp", r.Bootcamp)
	}

	r.ID = bson.NewObjectID()
	r.User = actor.ID
	r.CreatedAt = time.Now().UTC()
	if err := s.reviews.Insert(ctx, r); err != nil {
		return nil, err
	}
	s.recompute(ctx, r.Bootcamp)
	return r, nil
}

func (s *ReviewService) Update(ctx context.Context, id bson.ObjectID, patch Patch[models.Review], actor *models.User) (*models.Review, error) {
	r, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Review", id)
	}
	if !canModify(r.User, actor) {
		return nil, forbidden(actor, "update review", id)
	}
	set, err := patch.Apply(r)
	if err != nil {
		return nil, err
	}
	updated, err := s.reviews.UpdateByID(ctx, id, set)
	if err != nil {
		return nil, notFound(err, "Review", id)
	}
	if _, ok := set["rating"]; ok {
		s.recompute(ctx, updated.Bootcamp)
	}
	return updated, nil
}

func (s *ReviewService) Delete(ctx context.Context, id bson.ObjectID, actor *models.User) (*models.Review, error) {
	r, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Review", id)
	}
	if !canModify(r.User, actor) {
		return nil, forbidden(actor, "delete review", id)
	}
	deleted, err := s.reviews.DeleteByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Review", id)
	}
	s.recompute(ctx, deleted.Bootcamp)
	return deleted, nil
}

func (s *ReviewService) recompute(ctx context.Context, bootcampID bson.ObjectID) {
	s.bg.Go(ctx, "recompute average rating", func(ctx context.Context) error {
		return s.aggregates.RecomputeAverageRating(ctx, bootcampID)
	})
}
