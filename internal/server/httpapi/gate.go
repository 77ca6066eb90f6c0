package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/chapel/internal/logging"
	"github.com/dmitrijs2005/chapel/internal/server/auth"
	"github.com/dmitrijs2005/chapel/internal/server/session"
	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// failure is the body of every error response.
type failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

var (
	unauthorised = failure{Message: "Unauthorised"}
	forbidden    = failure{Message: "Forbidden"}
)

func abortUnauthorised(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorised)
}

// Gate admits requests that carry a valid session cookie and stores the
// recovered claims on the context. A missing cookie and every kind of invalid
// token get the same 401 response; the cause goes to the log only.
func Gate(v TokenVerifier, l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := session.Token(c)
		if raw == "" {
			abortUnauthorised(c)
			return
		}

		claims, err := v.Verify(raw)
		if err != nil {
			l.Warn(c.Request.Context(), "session rejected", "path", c.FullPath(), "error", err)
			abortUnauthorised(c)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom returns the claims Gate stored, if any.
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok && claims != nil
}

// requireAdmin runs after Gate.
func requireAdmin(c *gin.Context) {
	claims, ok := ClaimsFrom(c)
	if !ok {
		abortUnauthorised(c)
		return
	}
	if !claims.IsAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, forbidden)
		return
	}
	c.Next()
}
