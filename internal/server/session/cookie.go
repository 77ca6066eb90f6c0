// Package session carries the signed token between browser and server in an
// HttpOnly cookie.
package session

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/chapel/internal/common"
	"github.com/gin-gonic/gin"
)

// Set writes the session cookie. Its Max-Age matches the token TTL so the
// browser drops it when the token expires.
func Set(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.TokenCookieName, token, int(ttl/time.Second), "/", "", secure, true)
}

// Clear expires the session cookie. The token itself stays valid until exp.
func Clear(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.TokenCookieName, "", -1, "/", "", secure, true)
}

// Token returns the raw session token, or "" when the request has none.
func Token(c *gin.Context) string {
	v, err := c.Cookie(common.TokenCookieName)
	if err != nil {
		return ""
	}
	return v
}
