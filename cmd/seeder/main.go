// Command seeder imports the JSON fixtures in a directory into the database,
// or destroys all bootcamp, course, review and user records.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/ZacIsrael/dev-camper-api/config"
	"github.com/ZacIsrael/dev-camper-api/database"
	"github.com/ZacIsrael/dev-camper-api/dto"
	"github.com/ZacIsrael/dev-camper-api/geocoder"
	"github.com/ZacIsrael/dev-camper-api/log"
	"github.com/ZacIsrael/dev-camper-api/services"
	"github.com/ZacIsrael/dev-camper-api/utils"
)

type userFixture struct {
	ID string `json:"_id"`
	dto.CreateUserDTO
}

type bootcampFixture struct {
	ID   string `json:"_id"`
	User string `json:"user"`
	dto.CreateBootcampDTO
}

type courseFixture struct {
	ID       string `json:"_id"`
	User     string `json:"user"`
	Bootcamp string `json:"bootcamp"`
	dto.CreateCourseDTO
}

type reviewFixture struct {
	ID       string `json:"_id"`
	User     string `json:"user"`
	Bootcamp string `json:"bootcamp"`
	dto.CreateReviewDTO
}

func main() {
	importData := flag.Bool("i", false, "import fixtures")
	destroyData := flag.Bool("d", false, "destroy all data")
	dir := flag.String("dir", "_data", "directory holding users.json, bootcamps.json, courses.json and reviews.json")
	flag.Parse()

	if *importData == *destroyData {
		fmt.Println("exactly one of -i or -d is required")
		os.Exit(1)
	}

	_ = godotenv.Load()
	cfg := config.Load()
	log.Init(cfg.IsProduction())
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Logger.Fatal("mongo connection failed", zap.Error(err))
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()
	db := client.Database(cfg.DatabaseName)
	cols := database.NewCollections(db)

	if *destroyData {
		if err := destroy(ctx, cols); err != nil {
			log.Logger.Fatal("destroy failed", zap.Error(err))
		}
		log.Logger.Info("data destroyed")
		return
	}

	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Logger.Fatal("index creation failed", zap.Error(err))
	}
	rdb, err := database.ConnectRedis(ctx, cfg.RedisURI)
	if err != nil {
		log.Logger.Warn("redis unavailable, geocode cache disabled", zap.Error(err))
		rdb = nil
	}
	geo := geocoder.New(cfg.GeocoderProvider, cfg.GeocoderAPIKey, rdb)
	if err := seed(ctx, cols, geo, *dir); err != nil {
		log.Logger.Fatal("import failed", zap.Error(err))
	}
	log.Logger.Info("data imported", zap.String("dir", *dir))
}

func destroy(ctx context.Context, cols *database.Collections) error {
	all := bson.M{}
	if _, err := cols.Reviews.DeleteMany(ctx, all); err != nil {
		return err
	}
	if _, err := cols.Courses.DeleteMany(ctx, all); err != nil {
		return err
	}
	if _, err := cols.Bootcamps.DeleteMany(ctx, all); err != nil {
		return err
	}
	_, err := cols.Users.DeleteMany(ctx, all)
	return err
}

func seed(ctx context.Context, cols *database.Collections, geo services.Geocoder, dir string) error {
	now := time.Now().UTC()

	var users []userFixture
	if err := readFixtures(dir, "users.json", &users); err != nil {
		return err
	}
	for _, f := range users {
		u, err := f.Model()
		if err != nil {
			return fmt.Errorf("user %s: %w", f.ID, err)
		}
		if u.ID, err = bson.ObjectIDFromHex(f.ID); err != nil {
			return fmt.Errorf("user id %q: %w", f.ID, err)
		}
		if u.Password, err = utils.HashPassword(u.Password); err != nil {
			return err
		}
		u.CreatedAt = now
		if err := cols.Users.Insert(ctx, u); err != nil {
			return fmt.Errorf("user %s: %w", f.ID, err)
		}
	}

	var bootcamps []bootcampFixture
	if err := readFixtures(dir, "bootcamps.json", &bootcamps); err != nil {
		return err
	}
	for _, f := range bootcamps {
		b, err := f.Model()
		if err != nil {
			return fmt.Errorf("bootcamp %s: %w", f.ID, err)
		}
		if b.ID, b.User, err = ids(f.ID, f.User); err != nil {
			return fmt.Errorf("bootcamp %s: %w", f.ID, err)
		}
		if b.Location, err = geo.Geocode(ctx, b.Address); err != nil {
			return fmt.Errorf("bootcamp %s: %w", f.ID, err)
		}
		b.Slug = utils.GenerateSlug(b.Name)
		b.CreatedAt = now
		if err := cols.Bootcamps.Insert(ctx, b); err != nil {
			return fmt.Errorf("bootcamp %s: %w", f.ID, err)
		}
	}

	touched := map[bson.ObjectID]bool{}

	var courses []courseFixture
	if err := readFixtures(dir, "courses.json", &courses); err != nil {
		return err
	}
	for _, f := range courses {
		id, bootcamp, user, err := childIDs(f.ID, f.Bootcamp, f.User)
		if err != nil {
			return fmt.Errorf("course %s: %w", f.ID, err)
		}
		c, err := f.Model(bootcamp, user)
		if err != nil {
			return fmt.Errorf("course %s: %w", f.ID, err)
		}
		c.ID, c.CreatedAt = id, now
		if err := cols.Courses.Insert(ctx, c); err != nil {
			return fmt.Errorf("course %s: %w", f.ID, err)
		}
		touched[bootcamp] = true
	}

	var reviews []reviewFixture
	if err := readFixtures(dir, "reviews.json", &reviews); err != nil {
		return err
	}
	for _, f := range reviews {
		id, bootcamp, user, err := childIDs(f.ID, f.Bootcamp, f.User)
		if err != nil {
			return fmt.Errorf("review %s: %w", f.ID, err)
		}
		r, err := f.Model(bootcamp, user)
		if err != nil {
			return fmt.Errorf("review %s: %w", f.ID, err)
		}
		r.ID, r.CreatedAt = id, now
		if err := cols.Reviews.Insert(ctx, r); err != nil {
			return fmt.Errorf("review %s: %w", f.ID, err)
		}
		touched[bootcamp] = true
	}

	agg := services.NewAggregates(cols.Bootcamps, cols.Courses, cols.Reviews)
	for id := range touched {
		if err := agg.RecomputeAverageCost(ctx, id); err != nil {
			return err
		}
		if err := agg.RecomputeAverageRating(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// readFixtures leaves out unchanged when the file does not exist.
func readFixtures(dir, name string, out any) error {
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		log.Logger.Warn("fixture file missing", zap.String("file", name))
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func ids(id, user string) (bson.ObjectID, bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return oid, oid, fmt.Errorf("id %q: %w", id, err)
	}
	uid, err := bson.ObjectIDFromHex(user)
	if err != nil {
		return oid, uid, fmt.Errorf("user %q: %w", user, err)
	}
	return oid, uid, nil
}

func childIDs(id, bootcamp, user string) (bson.ObjectID, bson.ObjectID, bson.ObjectID, error) {
	oid, uid, err := ids(id, user)
	if err != nil {
		return oid, oid, uid, err
	}
	bid, err := bson.ObjectIDFromHex(bootcamp)
	if err != nil {
		return oid, bid, uid, fmt.Errorf("bootcamp %q: %w", bootcamp, err)
	}
	return oid, bid, uid, nil
}
