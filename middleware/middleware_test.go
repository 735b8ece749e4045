package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/middleware"
	"github.com/ZacIsrael/dev-camper-api/models"
)

type tokens map[string]*models.User

func (t tokens) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if u, ok := t[token]; ok {
		return u, nil
	}
	return nil, errs.E(errs.ErrUnauthenticated, "Not authorized to access this route")
}

func serve(r *gin.Engine, req *http.Request) (int, map[string]any) {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec.Code, body
}

var _ = Describe("Protect and Authorize", func() {
	var r *gin.Engine

	BeforeEach(func() {
		auth := tokens{
			"pub":  {Name: "Pub", Role: models.RolePublisher},
			"user": {Name: "User", Role: models.RoleUser},
		}
		r = gin.New()
		r.Use(middleware.ErrorHandler())
		r.GET("/private",
			middleware.Protect(auth),
			middleware.Authorize(models.RolePublisher, models.RoleAdmin),
			func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"name": middleware.CurrentUser(c).Name})
			},
		)
	})

	It("accepts a bearer token", func() {
		req := httptest.NewRequest("GET", "/private", nil)
		req.Header.Set("Authorization", "Bearer pub")
		code, body := serve(r, req)
		Expect(code).To(Equal(http.StatusOK))
		Expect(body["name"]).To(Equal("Pub"))
	})

	It("accepts the token cookie", func() {
		req := httptest.NewRequest("GET", "/private", nil)
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: "pub"})
		code, _ := serve(r, req)
		Expect(code).To(Equal(http.StatusOK))
	})

	It("rejects a missing token", func() {
		code, body := serve(r, httptest.NewRequest("GET", "/private", nil))
		Expect(code).To(Equal(http.StatusUnauthorized))
		Expect(body).To(Equal(map[string]any{"success": false, "error": "Not authorized to access this route"}))
	})

	It("rejects roles outside the list", func() {
		req := httptest.NewRequest("GET", "/private", nil)
		req.Header.Set("Authorization", "Bearer user")
		code, body := serve(r, req)
		Expect(code).To(Equal(http.StatusForbidden))
		Expect(body["error"]).To(Equal("User role user is not authorized to access this route"))
	})
})

var _ = Describe("RateLimiter", func() {
	It("limits each address separately", func() {
		l := middleware.NewRateLimiter(2, time.Hour)
		Expect(l.Allow("10.0.0.1")).To(BeTrue())
		Expect(l.Allow("10.0.0.1")).To(BeTrue())
		Expect(l.Allow("10.0.0.1")).To(BeFalse())
		Expect(l.Allow("10.0.0.2")).To(BeTrue())
	})
})

var _ = Describe("SecurityHeaders", func() {
	It("sets the hardening headers", func() {
		r := gin.New()
		r.Use(middleware.SecurityHeaders())
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		Expect(rec.Header().Get("X-Content-Type-Options")).To(Equal("nosniff"))
	})
})

var _ = Describe("RequestID", func() {
	It("keeps an incoming id and generates one otherwise", func() {
		r := gin.New()
		r.Use(middleware.RequestID())
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Request-ID", "abc")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		Expect(rec.Header().Get("X-Request-ID")).To(Equal("abc"))

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		Expect(rec.Header().Get("X-Request-ID")).To(HaveLen(36))
	})
})
