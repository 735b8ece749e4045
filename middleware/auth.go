package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/models"
)

// TokenCookie is the http-only cookie carrying the session token.
const TokenCookie = "token"

const userKey = "user"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Protect requires a valid token, taken from the Authorization header or
// the token cookie, and stores the resolved user on the context.
func Protect(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		} else if cookie, err := c.Cookie(TokenCookie); err == nil {
			token = cookie
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			abort(c, err)
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// Authorize lets only the given roles through. It must run after Protect.
func Authorize(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abort(c, errs.E(errs.ErrUnauthenticated, "Not authorized to access this route"))
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		abort(c, errs.E(errs.ErrForbidden, "User role %s is not authorized to access this route", user.Role))
	}
}

// CurrentUser returns the user stored by Protect, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
