package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/chapel/internal/common"
	"github.com/dmitrijs2005/chapel/internal/server/services"
	"github.com/dmitrijs2005/chapel/internal/server/session"
	"github.com/gin-gonic/gin"
)

var loginFailed = failure{Message: "incorrect username or password"}

type loginRequest struct {
	Email      string `json:"email" form:"email"`
	Identifier string `json:"identifier" form:"identifier"`
	Password   string `json:"password" form:"password"`
}

func (r loginRequest) identifier() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Identifier
}

// POST /api/login
func (s *Server) login(c *gin.Context) {
	const op = "httpapi.login"

	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, invalidRequest)
		return
	}

	sess, err := s.users.Login(c.Request.Context(), req.identifier(), req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, loginFailed)
			return
		}
		s.writeError(c, op, err, "")
		return
	}

	session.Set(c, sess.Token, s.tokenTTL, s.cookieSecure)
	c.JSON(http.StatusOK, gin.H{"user": sess.User})
}

// GET /api/verify
func (s *Server) verify(c *gin.Context) {
	raw := session.Token(c)
	if raw == "" {
		c.JSON(http.StatusOK, gin.H{"verified": false})
		return
	}

	claims, err := s.verifier.Verify(raw)
	if err != nil {
		s.logger.Debug(c.Request.Context(), "verify: session rejected", "error", err)
		c.JSON(http.StatusOK, gin.H{"verified": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"verified": true, "user": claims})
}

// GET /api/logout
func (s *Server) logout(c *gin.Context) {
	session.Clear(c, s.cookieSecure)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Picture  string `json:"picture"`
}

// POST /api/register
func (s *Server) register(c *gin.Context) {
	const op = "httpapi.register"

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, invalidRequest)
		return
	}

	user, err := s.users.Register(c.Request.Context(), services.NewUser{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Picture:  req.Picture,
	})
	if err != nil {
		s.writeError(c, op, err, "Email already registered")
		return
	}

	if claims, ok := ClaimsFrom(c); ok {
		s.logger.Info(c.Request.Context(), "user registered", "by", claims.Subject, "user", user.Username)
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}
