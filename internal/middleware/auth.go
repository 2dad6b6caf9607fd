package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"yatube/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	ContextIdentityKey = "identity"
	AccessTokenCookie  = "access_token"
)

// Authenticator resolves an access token to the user it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (model.Identity, error)
}

// AuthMiddleware attaches the requester's identity to the context. Requests
// without a usable token continue as anonymous.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFromRequest(c)
		if tokenStr == "" {
			c.Next()
			return
		}

		id, err := auth.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("token rejected, continuing as anonymous")
			c.Next()
			return
		}

		c.Set(ContextIdentityKey, id)
		c.Next()
	}
}

// LoginRequired sends anonymous requesters to the login page, remembering
// where they were going.
func LoginRequired(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IdentityFrom(c).Authenticated() {
			c.Next()
			return
		}
		target := loginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}

// IdentityFrom returns the requester, anonymous if none was attached.
func IdentityFrom(c *gin.Context) model.Identity {
	if v, ok := c.Get(ContextIdentityKey); ok {
		if id, ok2 := v.(model.Identity); ok2 {
			return id
		}
	}
	return model.Identity{}
}

func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}
