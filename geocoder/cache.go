package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ZacIsrael/dev-camper-api/log"
	"github.com/ZacIsrael/dev-camper-api/models"
	"github.com/ZacIsrael/dev-camper-api/services"
)

const cacheTTL = 7 * 24 * time.Hour

// Cached memoizes successful lookups in Redis. Cache failures fall through
// to the wrapped geocoder.
type Cached struct {
	next  services.Geocoder
	redis *redis.Client
	ttl   time.Duration
}

func NewCached(next services.Geocoder, client *redis.Client) *Cached {
	return &Cached{next: next, redis: client, ttl: cacheTTL}
}

func cacheKey(address string) string {
	return "geocode:" + strings.ToLower(strings.Join(strings.Fields(address), " "))
}

func (c *Cached) Geocode(ctx context.Context, address string) (*models.Location, error) {
	key := cacheKey(address)
	raw, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var loc models.Location
		if err := json.Unmarshal(raw, &loc); err == nil {
			return &loc, nil
		}
	case !errors.Is(err, redis.Nil):
		log.Logger.Warn("geocode cache read failed", zap.Error(err))
	}

	loc, err := c.next.Geocode(ctx, address)
	if err != nil || loc == nil {
		return loc, err
	}
	if raw, err := json.Marshal(loc); err == nil {
		if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			log.Logger.Warn("geocode cache write failed", zap.Error(err))
		}
	}
	return loc, nil
}

// New picks the provider from GEOCODER_PROVIDER and wraps it with the
// Redis cache when a client is given.
func New(provider, apiKey string, client *redis.Client) services.Geocoder {
	var g services.Geocoder = Noop{}
	if apiKey != "" && (provider == "" || strings.EqualFold(provider, "mapquest")) {
		g = NewMapQuest(apiKey)
	} else {
		log.Logger.Warn("geocoder not configured, locations will be empty", zap.String("provider", provider))
	}
	if client != nil {
		g = NewCached(g, client)
	}
	return g
}
