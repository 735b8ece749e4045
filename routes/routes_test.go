package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"

	"github.com/ZacIsrael/dev-camper-api/middleware"
	"github.com/ZacIsrael/dev-camper-api/models"
	"github.com/ZacIsrael/dev-camper-api/routes"
	"github.com/ZacIsrael/dev-camper-api/services"
	"github.com/ZacIsrael/dev-camper-api/services/servicestest"
	"github.com/ZacIsrael/dev-camper-api/utils"
)

type staticGeocoder struct{}

func (staticGeocoder) Geocode(ctx context.Context, address string) (*models.Location, error) {
	return &models.Location{Type: "Point", Coordinates: []float64{-71.104028, 42.350846}, FormattedAddress: address}, nil
}

type nopPhotos struct{}

func (nopPhotos) Save(ctx context.Context, name string, _ *multipart.FileHeader) (string, error) {
	return name, nil
}

func (nopPhotos) Delete(ctx context.Context, stored string) error { return nil }

type outbox struct{ sent []services.Message }

func (o *outbox) Send(ctx context.Context, msg services.Message) error {
	o.sent = append(o.sent, msg)
	return nil
}

type response struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

func (r response) data() map[string]any {
	d, _ := r.Body["data"].(map[string]any)
	return d
}

type client struct {
	router *gin.Engine
	token  string
}

func (c *client) do(method, path string, body any) response {
	var buf bytes.Buffer
	if body != nil {
		ExpectWithOffset(1, json.NewEncoder(&buf).Encode(body)).To(Succeed())
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	res := response{Code: rec.Code, Header: rec.Header()}
	if rec.Body.Len() > 0 {
		ExpectWithOffset(1, json.Unmarshal(rec.Body.Bytes(), &res.Body)).To(Succeed(), rec.Body.String())
	}
	return res
}

func (c *client) as(token string) *client {
	return &client{router: c.router, token: token}
}

func newRouter(mail *outbox, limiter *middleware.RateLimiter, origins ...string) *gin.Engine {
	users := servicestest.NewCollection[models.User](models.UserHiddenFields...).Unique("email")
	bootcamps := servicestest.NewCollection[models.Bootcamp]().Unique("name")
	courses := servicestest.NewCollection[models.Course]()
	reviews := servicestest.NewCollection[models.Review]().Unique("bootcamp", "user")
	bg := services.InlineBackground()
	agg := services.NewAggregates(bootcamps, courses, reviews)

	return routes.New(routes.Deps{
		Auth:           services.NewAuthService(users, mail, "test-secret", time.Hour),
		Bootcamps:      services.NewBootcampService(bootcamps, courses, reviews, staticGeocoder{}, nopPhotos{}, utils.NewImageValidator(1<<20), bg),
		Courses:        services.NewCourseService(courses, bootcamps, agg, bg),
		Reviews:        services.NewReviewService(reviews, bootcamps, agg, bg),
		Users:          services.NewUserService(users),
		CookieTTL:      time.Hour,
		SecureCookie:   false,
		RateLimiter:    limiter,
		AllowedOrigins: origins,
	})
}
