package ginutil

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newContext(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestQueryInt(t *testing.T) {
	assert.Equal(t, 3, QueryInt(newContext("page=3"), "page", 1))
	assert.Equal(t, 3, QueryInt(newContext("page=+3"), "page", 1))
	assert.Equal(t, -2, QueryInt(newContext("page=-2"), "page", 1))
	assert.Equal(t, 1, QueryInt(newContext("page=abc"), "page", 1))
	assert.Equal(t, 1, QueryInt(newContext(""), "page", 1))
}

func TestQueryBool(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"regenerate=true", true},
		{"regenerate=1", true},
		{"regenerate=TRUE", true},
		{"regenerate=yes", true},
		{"regenerate=on", true},
		{"regenerate", true},
		{"regenerate=no", false},
		{"regenerate=0", false},
		{"regenerate=maybe", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, QueryBool(newContext(tt.query), "regenerate"))
		})
	}
}

func TestQueryTrimmed(t *testing.T) {
	assert.Equal(t, "smile", QueryTrimmed(newContext("q=%20smile%20"), "q"))
	assert.Equal(t, "", QueryTrimmed(newContext(""), "q"))
}
