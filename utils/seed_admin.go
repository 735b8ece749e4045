package utils

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"github.com/ZacIsrael/dev-camper-api/log"
	"github.com/ZacIsrael/dev-camper-api/models"
)

// SeedAdminUser inserts an admin account for email unless one already
// exists. Existing accounts are left untouched. An empty name falls back to
// the local part of email.
func SeedAdminUser(ctx context.Context, usersCol *mongo.Collection, name, email, pass string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || pass == "" {
		return fmt.Errorf("missing admin email or password")
	}

	hash, err := HashPassword(pass)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	filter := bson.M{"email": email}
	update := bson.M{
		"$setOnInsert": bson.M{
			"name":      AdminName(name, email),
			"email":     email,
			"password":  hash,
			"role":      models.RoleAdmin,
			"createdAt": time.Now().UTC(),
		},
	}

	opts := options.UpdateOne().SetUpsert(true)

	res, err := usersCol.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("seed admin upsert failed: %w", err)
	}

	if res.UpsertedCount == 1 {
		log.Logger.Info("admin user seeded", zap.String("email", email))
	} else {
		log.Logger.Debug("admin user already exists", zap.String("email", email))
	}

	return nil
}

// AdminName returns name, or the local part of email when name is blank.
func AdminName(name, email string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return local
}
