package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZacIsrael/dev-camper-api/dto"
	"github.com/ZacIsrael/dev-camper-api/middleware"
	"github.com/ZacIsrael/dev-camper-api/services"
)

type AuthController struct {
	svc          *services.AuthService
	cookieTTL    time.Duration
	secureCookie bool
}

func NewAuthController(svc *services.AuthService, cookieTTL time.Duration, secureCookie bool) *AuthController {
	return &AuthController{svc: svc, cookieTTL: cookieTTL, secureCookie: secureCookie}
}

// sendToken returns the user and token in the body and the token as the
// session cookie.
func (ctl *AuthController) sendToken(c *gin.Context, status int, s *services.Session) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    s.Token,
		Path:     "/",
		Expires:  time.Now().Add(ctl.cookieTTL),
		HttpOnly: true,
		Secure:   ctl.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	c.JSON(status, gin.H{"success": true, "data": s.User, "token": s.Token})
}

// POST /api/v1/auth/register
func (ctl *AuthController) Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RegisterDTO
		if !bindJSON(c, &body) {
			return
		}
		u, err := body.Model()
		if err != nil {
			fail(c, err)
			return
		}
		s, err := ctl.svc.Register(c.Request.Context(), u)
		if err != nil {
			fail(c, err)
			return
		}
		ctl.sendToken(c, http.StatusCreated, s)
	}
}

// POST /api/v1/auth/login
func (ctl *AuthController) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if !bindJSON(c, &body) {
			return
		}
		if err := body.Validate(); err != nil {
			fail(c, err)
			return
		}
		s, err := ctl.svc.Login(c.Request.Context(), body.Email, body.Password)
		if err != nil {
			fail(c, err)
			return
		}
		ctl.sendToken(c, http.StatusOK, s)
	}
}

// GET /api/v1/auth/logout
func (ctl *AuthController) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     middleware.TokenCookie,
			Value:    "none",
			Path:     "/",
			Expires:  time.Now().Add(10 * time.Second),
			HttpOnly: true,
			Secure:   ctl.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
		respond(c, http.StatusOK, gin.H{})
	}
}

// GET /api/v1/auth/me
func (ctl *AuthController) Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		respond(c, http.StatusOK, middleware.CurrentUser(c))
	}
}

// PUT /api/v1/auth/updatedetails
func (ctl *AuthController) UpdateDetails() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.UpdateDetailsDTO
		if !bindJSON(c, &body) {
			return
		}
		u, err := ctl.svc.UpdateDetails(c.Request.Context(), middleware.CurrentUser(c), body)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, u)
	}
}

// PUT /api/v1/auth/updatepassword
func (ctl *AuthController) UpdatePassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.UpdatePasswordDTO
		if !bindJSON(c, &body) {
			return
		}
		if err := body.Validate(); err != nil {
			fail(c, err)
			return
		}
		s, err := ctl.svc.UpdatePassword(c.Request.Context(), middleware.CurrentUser(c), body.CurrentPassword, body.NewPassword)
		if err != nil {
			fail(c, err)
			return
		}
		ctl.sendToken(c, http.StatusOK, s)
	}
}

// POST /api/v1/auth/forgotpassword
func (ctl *AuthController) ForgotPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ForgotPasswordDTO
		if !bindJSON(c, &body) {
			return
		}
		if err := body.Validate(); err != nil {
			fail(c, err)
			return
		}
		resetURL := func(token string) string {
			return fmt.Sprintf("%s://%s/api/v1/auth/resetpassword/%s", scheme(c), c.Request.Host, token)
		}
		if err := ctl.svc.ForgotPassword(c.Request.Context(), body.Email, resetURL); err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, "Email sent")
	}
}

// PUT /api/v1/auth/resetpassword/:resettoken
func (ctl *AuthController) ResetPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ResetPasswordDTO
		if !bindJSON(c, &body) {
			return
		}
		if err := body.Validate(); err != nil {
			fail(c, err)
			return
		}
		s, err := ctl.svc.ResetPassword(c.Request.Context(), c.Param("resettoken"), body.Password)
		if err != nil {
			fail(c, err)
			return
		}
		ctl.sendToken(c, http.StatusOK, s)
	}
}

func scheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}
