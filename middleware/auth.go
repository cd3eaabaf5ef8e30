package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"trivia/handlers"
	"trivia/services"

	"github.com/gin-gonic/gin"
)

// AdminGuard requires a valid admin bearer token when auth is enabled. The
// request passes untouched when it is disabled or when skip reports true.
func AdminGuard(auth *services.AuthService, skip func(c *gin.Context) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.Enabled() || (skip != nil && skip(c)) {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			handlers.Abort(c, http.StatusUnauthorized)
			return
		}
		if err := auth.ValidateToken(token); err != nil {
			handlers.Abort(c, http.StatusUnauthorized)
			return
		}

		c.Next()
	}
}

// IsSearch reports whether a POST /questions body carries a searchTerm.
// Searches stay public when the guard is on. The body is restored so the
// handler can bind it again.
func IsSearch(c *gin.Context) bool {
	if c.Request.Body == nil {
		return false
	}
	raw, err := io.ReadAll(c.Request.Body)
	c.Request.Body.Close()
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return false
	}

	var body struct {
		SearchTerm string `json:"searchTerm"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return false
	}
	return body.SearchTerm != ""
}
