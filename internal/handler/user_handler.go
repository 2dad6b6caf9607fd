package handler

import (
	"errors"
	"net/http"

	"yatube/internal/form"
	"yatube/internal/middleware"
	"yatube/internal/pkg"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc *service.UserService
}

type LoginReq struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
	Next     string `form:"next" json:"next"`
}

type RefreshReq struct {
	RefreshToken string `form:"refresh_token" json:"refresh_token" binding:"required"`
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Signup registers a user and sends them to the index.
func (h *UserHandler) Signup(c *gin.Context) {
	var data form.SignupData
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	_, f, err := h.svc.Signup(c.Request.Context(), data)
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, "/")
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"values": f.Values(), "errors": f.Errors})
	default:
		respondError(c, err)
	}
}

// LoginForm describes the login form and echoes where to go afterwards.
func (h *UserHandler) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fields": []string{"username", "password"},
		"next":   safeNext(c.Query("next")),
	})
}

// Login issues a token pair and sets the access token cookie. With a local
// next path the requester is redirected there instead.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if req.Next == "" {
		req.Next = c.Query("next")
	}

	pair, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	setAccessCookie(c, pair.AccessToken, int(pkg.AccessTTL.Seconds()))
	if next := safeNext(req.Next); next != "" {
		c.Redirect(http.StatusFound, next)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *UserHandler) Logout(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	if !id.Authenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
		return
	}

	if err := h.svc.Logout(c.Request.Context(), id.UserID); err != nil {
		respondError(c, err)
		return
	}

	setAccessCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// TokenRefresh exchanges a refresh token for a new pair.
func (h *UserHandler) TokenRefresh(c *gin.Context) {
	var req RefreshReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	setAccessCookie(c, pair.AccessToken, int(pkg.AccessTTL.Seconds()))
	c.JSON(http.StatusOK, pair)
}

func setAccessCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, value, maxAge, "/", "", false, true)
}
