package services

import (
	"context"
	"mime/multipart"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/log"
	"github.com/ZacIsrael/dev-camper-api/models"
	"github.com/ZacIsrael/dev-camper-api/query"
)

// Page is one page of a list operation.
type Page[T any] struct {
	Items      []T
	Total      int64
	Pagination query.Pagination
}

func newPage[T any](items []T, total int64, q query.Query) *Page[T] {
	return &Page[T]{Items: items, Total: total, Pagination: query.NewPagination(q, total)}
}

// Patch is a partial update: it mutates the loaded record, re-validates it
// and returns the changed fields.
type Patch[T any] interface {
	Apply(*T) (bson.M, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (*models.Location, error)
}

type PhotoStore interface {
	// Save stores the upload under name and returns the value to record on
	// the bootcamp (a file name or a public URL).
	Save(ctx context.Context, name string, file *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, stored string) error
}

type Message struct {
	To      string
	Subject string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// canModify reports whether actor may change a record owned by owner.
func canModify(owner bson.ObjectID, actor *models.User) bool {
	return actor != nil && (actor.Role == models.RoleAdmin || actor.ID == owner)
}

func forbidden(actor *models.User, what string, id bson.ObjectID) error {
	return errs.E(errs.ErrForbidden, "User %s is not authorized to %s %s", actor.ID.Hex(), what, id.Hex())
}

// Background runs best-effort follow-ups of a write. Failures are logged
// and never retried.
type Background struct {
	wg      sync.WaitGroup
	inline  bool
	timeout time.Duration
}

func NewBackground() *Background {
	return &Background{timeout: 10 * time.Second}
}

// InlineBackground runs follow-ups before Go returns.
func InlineBackground() *Background {
	return &Background{inline: true, timeout: 10 * time.Second}
}

func (b *Background) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	run := func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.Logger.Warn("background task failed", zap.String("task", name), zap.Error(err))
		}
	}
	if b.inline {
		run()
		return
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		run()
	}()
}

// Wait blocks until every started follow-up has finished.
func (b *Background) Wait() {
	b.wg.Wait()
}
