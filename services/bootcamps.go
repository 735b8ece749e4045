package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/log"
	"github.com/ZacIsrael/dev-camper-api/models"
	"github.com/ZacIsrael/dev-camper-api/query"
	"github.com/ZacIsrael/dev-camper-api/utils"
)

// EarthRadiusMiles converts radius searches in miles to radians.
const EarthRadiusMiles = 3963.2

type BootcampService struct {
	bootcamps Repository[models.Bootcamp]
	courses   Repository[models.Course]
	reviews   Repository[models.Review]
	geocoder  Geocoder
	photos    PhotoStore
	files     *utils.FileValidator
	bg        *Background
}

func NewBootcampService(
	bootcamps Repository[models.Bootcamp],
	courses Repository[models.Course],
	reviews Repository[models.Review],
	geocoder Geocoder,
	photos PhotoStore,
	files *utils.FileValidator,
	bg *Background,
) *BootcampService {
	return &BootcampService{
		bootcamps: bootcamps,
		courses:   courses,
		reviews:   reviews,
		geocoder:  geocoder,
		photos:    photos,
		files:     files,
		bg:        bg,
	}
}

func (s *BootcampService) List(ctx context.Context, q query.Query) (*Page[models.Bootcamp], error) {
	items, total, err := s.bootcamps.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := s.attachCourses(ctx, items); err != nil {
		return nil, err
	}
	return newPage(items, total, q), nil
}

func (s *BootcampService) Get(ctx context.Context, id bson.ObjectID) (*models.Bootcamp, error) {
	b, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	bs := []models.Bootcamp{*b}
	if err := s.attachCourses(ctx, bs); err != nil {
		return nil, err
	}
	return &bs[0], nil
}

func (s *BootcampService) find(ctx context.Context, id bson.ObjectID) (*models.Bootcamp, error) {
	b, err := s.bootcamps.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Bootcamp", id)
	}
	return b, nil
}

func (s *BootcampService) attachCourses(ctx context.Context, items []models.Bootcamp) error {
	if len(items) == 0 {
		return nil
	}
	ids := bson.A{}
	for _, b := range items {
		ids = append(ids, b.ID)
	}
	courses, err := s.courses.Find(ctx, bson.M{"bootcamp": bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	byBootcamp := map[bson.ObjectID][]models.Course{}
	for _, c := range courses {
		byBootcamp[c.Bootcamp] = append(byBootcamp[c.Bootcamp], c)
	}
	for i := range items {
		items[i].Courses = byBootcamp[items[i].ID]
	}
	return nil
}

// Create stores b for actor. Publishers may own a single bootcamp; admins
// any number.
func (s *BootcampService) Create(ctx context.Context, b *models.Bootcamp, actor *models.User) (*models.Bootcamp, error) {
	if actor.Role != models.RoleAdmin {
		n, err := s.bootcamps.Count(ctx, bson.M{"user": actor.ID})
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, errs.E(errs.ErrValidation, "The user with ID %s has already published a bootcamp", actor.ID.Hex())
		}
	}

	loc, err := s.geocoder.Geocode(ctx, b.Address)
	if err != nil {
		return nil, err
	}

	b.ID = bson.NewObjectID()
	b.User = actor.ID
	b.Slug = utils.GenerateSlug(b.Name)
	b.Location = loc
	b.AverageCost, b.AverageRating = nil, nil
	if b.Photo == "" {
		b.Photo = models.DefaultPhoto
	}
	b.CreatedAt = time.Now().UTC()

	if err := s.bootcamps.Insert(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Update applies patch for the owner or an admin. A new name regenerates
// the slug and a new address is geocoded again.
func (s *BootcampService) Update(ctx context.Context, id bson.ObjectID, patch Patch[models.Bootcamp], actor *models.User) (*models.Bootcamp, error) {
	b, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(b.User, actor) {
		return nil, forbidden(actor, "update bootcamp", id)
	}

	set, err := patch.Apply(b)
	if err != nil {
		return nil, err
	}
	if _, ok := set["name"]; ok {
		set["slug"] = utils.GenerateSlug(b.Name)
	}
	var unset []string
	if _, ok := set["address"]; ok {
		loc, err := s.geocoder.Geocode(ctx, b.Address)
		if err != nil {
			return nil, err
		}
		if loc != nil {
			set["location"] = loc
		} else {
			unset = append(unset, "location")
		}
	}

	return s.bootcamps.UpdateByID(ctx, id, set, unset...)
}

// Delete removes the bootcamp together with its courses, reviews and photo.
func (s *BootcampService) Delete(ctx context.Context, id bson.ObjectID, actor *models.User) (*models.Bootcamp, error) {
	b, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(b.User, actor) {
		return nil, forbidden(actor, "delete bootcamp", id)
	}

	deleted, err := s.bootcamps.DeleteByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Bootcamp", id)
	}
	if n, err := s.courses.DeleteMany(ctx, bson.M{"bootcamp": id}); err != nil {
		return nil, err
	} else if n > 0 {
		log.Logger.Debug("cascade deleted courses", zap.String("bootcamp", id.Hex()), zap.Int64("count", n))
	}
	if _, err := s.reviews.DeleteMany(ctx, bson.M{"bootcamp": id}); err != nil {
		return nil, err
	}
	if deleted.Photo != "" && deleted.Photo != models.DefaultPhoto {
		photo := deleted.Photo
		s.bg.Go(ctx, "delete bootcamp photo", func(ctx context.Context) error {
			return s.photos.Delete(ctx, photo)
		})
	}
	return deleted, nil
}

// WithinRadius finds bootcamps within distance miles of zipcode.
func (s *BootcampService) WithinRadius(ctx context.Context, zipcode string, distance float64) ([]models.Bootcamp, error) {
	if math.IsNaN(distance) || math.IsInf(distance, 0) || distance <= 0 {
		return nil, errs.E(errs.ErrValidation, "distance must be a positive number")
	}
	loc, err := s.geocoder.Geocode(ctx, zipcode)
	if err != nil {
		return nil, err
	}
	if loc == nil || len(loc.Coordinates) != 2 {
		return nil, errs.E(errs.ErrNotFound, "No location found for zipcode %s", zipcode)
	}

	radius := distance / EarthRadiusMiles
	return s.bootcamps.Find(ctx, bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{loc.Coordinates[0], loc.Coordinates[1]}, radius},
			},
		},
	})
}

// UploadPhoto stores file as photo_<id><ext> and records it on the bootcamp.
func (s *BootcampService) UploadPhoto(ctx context.Context, id bson.ObjectID, file *multipart.FileHeader, actor *models.User) (*models.Bootcamp, error) {
	b, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(b.User, actor) {
		return nil, forbidden(actor, "update bootcamp", id)
	}
	if file == nil {
		return nil, errs.E(errs.ErrValidation, "Please upload a file")
	}
	if _, err := s.files.ValidateFile(file); err != nil {
		return nil, errs.E(errs.ErrValidation, "%s", err.Error())
	}

	name := fmt.Sprintf("photo_%s%s", id.Hex(), strings.ToLower(filepath.Ext(file.Filename)))
	stored, err := s.photos.Save(ctx, name, file)
	if err != nil {
		return nil, errs.Wrap(errs.ErrStorage, err, "Problem with file upload")
	}
	return s.bootcamps.UpdateByID(ctx, id, bson.M{"photo": stored})
}

func notFound(err error, what string, id bson.ObjectID) error {
	if errors.Is(err, errs.ErrNotFound) {
		return errs.Wrap(errs.ErrNotFound, err, fmt.Sprintf("%s not found with id of %s", what, id.Hex()))
	}
	return err
}
