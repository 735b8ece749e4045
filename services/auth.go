package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/log"
	"github.com/ZacIsrael/dev-camper-api/models"
	"github.com/ZacIsrael/dev-camper-api/utils"
)

type AuthService struct {
	users    UserRepository
	mailer   Mailer
	secret   string
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthService(users UserRepository, mailer Mailer, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, mailer: mailer, secret: secret, tokenTTL: tokenTTL, now: time.Now}
}

// Session is a signed-in user together with its bearer token.
type Session struct {
	User  *models.User
	Token string
}

func (s *AuthService) IssueToken(u *models.User) (*Session, error) {
	token, err := utils.GenerateAccessToken(u.ID.Hex(), s.secret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{User: u, Token: token}, nil
}

func (s *AuthService) Register(ctx context.Context, u *models.User) (*Session, error) {
	if err := insertUser(ctx, s.users, u); err != nil {
		return nil, err
	}
	return s.IssueToken(u)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.FindOneWithHidden(ctx, bson.M{"email": email})
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.E(errs.ErrUnauthenticated, "Invalid credentials")
		}
		return nil, err
	}
	if err := utils.CheckPassword(u.Password, password); err != nil {
		return nil, errs.E(errs.ErrUnauthenticated, "Invalid credentials")
	}
	u.Password = ""
	return s.IssueToken(u)
}

// Authenticate resolves a bearer token to the user it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, errs.E(errs.ErrUnauthenticated, "Not authorized to access this route")
	}
	claims, err := utils.ValidateToken(token, s.secret)
	if err != nil {
		return nil, errs.Wrap(errs.ErrUnauthenticated, err, "Not authorized to access this route")
	}
	id, err := bson.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, errs.Wrap(errs.ErrUnauthenticated, err, "Not authorized to access this route")
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.Wrap(errs.ErrUnauthenticated, err, "Not authorized to access this route")
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) UpdateDetails(ctx context.Context, actor *models.User, patch Patch[models.User]) (*models.User, error) {
	u := *actor
	set, err := patch.Apply(&u)
	if err != nil {
		return nil, err
	}
	return s.users.UpdateByID(ctx, actor.ID, set)
}

// UpdatePassword checks current against the stored hash and returns a fresh
// session.
func (s *AuthService) UpdatePassword(ctx context.Context, actor *models.User, current, next string) (*Session, error) {
	u, err := s.users.FindOneWithHidden(ctx, bson.M{"_id": actor.ID})
	if err != nil {
		return nil, notFound(err, "User", actor.ID)
	}
	if err := utils.CheckPassword(u.Password, current); err != nil {
		return nil, errs.E(errs.ErrUnauthenticated, "Password is incorrect")
	}
	hash, err := utils.HashPassword(next)
	if err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, err, "hash password")
	}
	updated, err := s.users.UpdateByID(ctx, actor.ID, bson.M{"password": hash})
	if err != nil {
		return nil, err
	}
	return s.IssueToken(updated)
}

// ForgotPassword stores a hashed reset token on the account and mails the
// plaintext one inside resetURL. When the mail cannot be sent the token is
// cleared again.
func (s *AuthService) ForgotPassword(ctx context.Context, email string, resetURL func(token string) string) error {
	u, err := s.users.FindOne(ctx, bson.M{"email": email})
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.Wrap(errs.ErrNotFound, err, "There is no user with that email")
		}
		return err
	}

	plain, hash, err := utils.NewResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	expire := s.now().UTC().Add(utils.ResetTokenTTL)
	if _, err := s.users.UpdateByID(ctx, u.ID, bson.M{
		"resetPasswordToken":  hash,
		"resetPasswordExpire": expire,
	}); err != nil {
		return err
	}

	msg := Message{
		To:      u.Email,
		Subject: "Password reset token",
		Text: "You are receiving this email because you (or someone else) has requested the reset of a password. " +
			"Please make a PUT request to: \n\n" + resetURL(plain),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		log.Logger.Error("reset email failed", zap.String("user", u.ID.Hex()), zap.Error(err))
		if _, uerr := s.users.UpdateByID(ctx, u.ID, nil, "resetPasswordToken", "resetPasswordExpire"); uerr != nil {
			log.Logger.Error("clear reset token", zap.String("user", u.ID.Hex()), zap.Error(uerr))
		}
		return errs.Wrap(errs.ErrMail, err, "Email could not be sent")
	}
	return nil
}

// ResetPassword sets a new password for the holder of an unexpired reset
// token; the token can only be used once.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) (*Session, error) {
	u, err := s.users.FindOne(ctx, bson.M{
		"resetPasswordToken":  utils.HashResetToken(token),
		"resetPasswordExpire": bson.M{"$gt": s.now().UTC()},
	})
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.E(errs.ErrValidation, "Invalid token")
		}
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, err, "hash password")
	}
	updated, err := s.users.UpdateByID(ctx, u.ID, bson.M{"password": hash}, "resetPasswordToken", "resetPasswordExpire")
	if err != nil {
		return nil, err
	}
	return s.IssueToken(updated)
}
