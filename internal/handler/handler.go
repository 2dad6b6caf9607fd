package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"yatube/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const LoginPath = "/auth/login/"

// loginRedirect sends the requester to the login page and back to the
// current path afterwards.
func loginRedirect(c *gin.Context) {
	c.Redirect(http.StatusFound, LoginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
}

// respondError maps service errors that have a fixed response. Validation
// and authorization outcomes are handled by the caller since they need the
// form or the post.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrUnauthenticated):
		loginRedirect(c)
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": service.ErrInvalidCredentials.Error()})
	case errors.Is(err, service.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"msg": err.Error()})
	default:
		_ = c.Error(err)
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal server error"})
	}
}

// idParam parses a positive numeric path parameter. Anything else is a 404,
// the same as an id that does not exist.
func idParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"msg": "not found"})
		return 0, false
	}
	return id, true
}

// safeNext only follows local absolute paths.
func safeNext(next string) string {
	if len(next) == 0 || next[0] != '/' || (len(next) > 1 && (next[1] == '/' || next[1] == '\\')) {
		return ""
	}
	return next
}
