// Package ginutil holds small query-string helpers shared by the handlers.
package ginutil

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// QueryInt parses an integer query parameter. Missing or malformed values
// yield defaultValue; range checks are left to the caller.
func QueryInt(c *gin.Context, key string, defaultValue int) int {
	value, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return defaultValue
	}
	return value
}

// QueryBool reports whether a flag parameter is switched on.
// Accepts strconv.ParseBool forms plus "yes"/"on"; a bare "?download" counts too.
func QueryBool(c *gin.Context, key string) bool {
	raw, present := c.GetQuery(key)
	if !present {
		return false
	}
	switch v := strings.ToLower(strings.TrimSpace(raw)); v {
	case "", "yes", "on":
		return true
	default:
		b, err := strconv.ParseBool(v)
		return err == nil && b
	}
}

// QueryTrimmed returns the parameter with surrounding whitespace removed
func QueryTrimmed(c *gin.Context, key string) string {
	return strings.TrimSpace(c.Query(key))
}
