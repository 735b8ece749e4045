package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/models"
	"github.com/ZacIsrael/dev-camper-api/query"
	"github.com/ZacIsrael/dev-camper-api/utils"
)

// UserService is the admin-only account management surface.
type UserService struct {
	users UserRepository
}

func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context, q query.Query) (*Page[models.User], error) {
	items, total, err := s.users.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return newPage(items, total, q), nil
}

func (s *UserService) Get(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User", id)
	}
	return u, nil
}

// Create stores u with its plaintext password replaced by a hash.
func (s *UserService) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if err := insertUser(ctx, s.users, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id bson.ObjectID, patch Patch[models.User]) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	set, err := patch.Apply(u)
	if err != nil {
		return nil, err
	}
	if err := hashInSet(set); err != nil {
		return nil, err
	}
	updated, err := s.users.UpdateByID(ctx, id, set)
	if err != nil {
		return nil, notFound(err, "User", id)
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id bson.ObjectID) error {
	if _, err := s.users.DeleteByID(ctx, id); err != nil {
		return notFound(err, "User", id)
	}
	return nil
}

func insertUser(ctx context.Context, users UserRepository, u *models.User) error {
	hash, err := utils.HashPassword(u.Password)
	if err != nil {
		return errs.Wrap(errs.ErrDatabase, err, "hash password")
	}
	u.ID = bson.NewObjectID()
	u.Password = hash
	u.ResetPasswordToken, u.ResetPasswordExpire = "", nil
	u.CreatedAt = time.Now().UTC()
	if err := users.Insert(ctx, u); err != nil {
		return err
	}
	u.Password = ""
	return nil
}

func hashInSet(set bson.M) error {
	plain, ok := set["password"].(string)
	if !ok {
		return nil
	}
	hash, err := utils.HashPassword(plain)
	if err != nil {
		return errs.Wrap(errs.ErrDatabase, err, "hash password")
	}
	set["password"] = hash
	return nil
}
