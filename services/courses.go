package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ZacIsrael/dev-camper-api/models"
	"github.com/ZacIsrael/dev-camper-api/query"
)

type CourseService struct {
	courses    Repository[models.Course]
	bootcamps  Repository[models.Bootcamp]
	aggregates *Aggregates
	bg         *Background
}

func NewCourseService(courses Repository[models.Course], bootcamps Repository[models.Bootcamp], aggregates *Aggregates, bg *Background) *CourseService {
	return &CourseService{courses: courses, bootcamps: bootcamps, aggregates: aggregates, bg: bg}
}

func (s *CourseService) List(ctx context.Context, q query.Query) (*Page[models.Course], error) {
	items, total, err := s.courses.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := s.attachBootcamps(ctx, items); err != nil {
		return nil, err
	}
	return newPage(items, total, q), nil
}

// ListForBootcamp lists the courses of one bootcamp, which must exist.
func (s *CourseService) ListForBootcamp(ctx context.Context, bootcampID bson.ObjectID, q query.Query) (*Page[models.Course], error) {
	if _, err := s.bootcamps.FindByID(ctx, bootcampID); err != nil {
		return nil, notFound(err, "Bootcamp", bootcampID)
	}
	items, total, err := s.courses.List(ctx, q.Where("bootcamp", bootcampID))
	if err != nil {
		return nil, err
	}
	return newPage(items, total, q), nil
}

func (s *CourseService) Get(ctx context.Context, id bson.ObjectID) (*models.Course, error) {
	c, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Course", id)
	}
	cs := []models.Course{*c}
	if err := s.attachBootcamps(ctx, cs); err != nil {
		return nil, err
	}
	return &cs[0], nil
}

func (s *CourseService) attachBootcamps(ctx context.Context, items []models.Course) error {
	summaries, err := bootcampSummaries(ctx, s.bootcamps, items, func(c models.Course) bson.ObjectID { return c.Bootcamp })
	if err != nil {
		return err
	}
	for i := range items {
		items[i].BootcampInfo = summaries[items[i].Bootcamp]
	}
	return nil
}

// Create adds c to its bootcamp; only the bootcamp owner or an admin may.
func (s *CourseService) Create(ctx context.Context, c *models.Course, actor *models.User) (*models.Course, error) {
	b, err := s.bootcamps.FindByID(ctx, c.Bootcamp)
	if err != nil {
		return nil, notFound(err, "Bootcamp", c.Bootcamp)
	}
	if !canModify(b.User, actor) {
		return nil, forbidden(actor, "add a course to bootcamp", b.ID)
	}

	c.ID = bson.NewObjectID()
	c.User = actor.ID
	c.CreatedAt = time.Now().UTC()
	if err := s.courses.Insert(ctx, c); err != nil {
		return nil, err
	}
	s.recompute(ctx, c.Bootcamp)
	return c, nil
}

func (s *CourseService) Update(ctx context.Context, id bson.ObjectID, patch Patch[models.Course], actor *models.User) (*models.Course, error) {
	c, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Course", id)
	}
	if !canModify(c.User, actor) {
		return nil, forbidden(actor, "update course", id)
	}
	set, err := patch.Apply(c)
	if err != nil {
		return nil, err
	}
	updated, err := s.courses.UpdateByID(ctx, id, set)
	if err != nil {
		return nil, notFound(err, "Course", id)
	}
	if _, ok := set["tuition"]; ok {
		s.recompute(ctx, updated.Bootcamp)
	}
	return updated, nil
}

func (s *CourseService) Delete(ctx context.Context, id bson.ObjectID, actor *models.User) (*models.Course, error) {
	c, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Course", id)
	}
	if !canModify(c.User, actor) {
		return nil, forbidden(actor, "delete course", id)
	}
	deleted, err := s.courses.DeleteByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Course", id)
	}
	s.recompute(ctx, deleted.Bootcamp)
	return deleted, nil
}

func (s *CourseService) recompute(ctx context.Context, bootcampID bson.ObjectID) {
	s.bg.Go(ctx, "recompute average cost", func(ctx context.Context) error {
		return s.aggregates.RecomputeAverageCost(ctx, bootcampID)
	})
}

// bootcampSummaries loads the parents referenced by items in one query.
func bootcampSummaries[T any](ctx context.Context, bootcamps Repository[models.Bootcamp], items []T, parent func(T) bson.ObjectID) (map[bson.ObjectID]*models.BootcampSummary, error) {
	out := map[bson.ObjectID]*models.BootcampSummary{}
	if len(items) == 0 {
		return out, nil
	}
	seen := map[bson.ObjectID]bool{}
	ids := bson.A{}
	for _, it := range items {
		id := parent(it)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	found, err := bootcamps.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for i := range found {
		out[found[i].ID] = found[i].Summary()
	}
	return out, nil
}
