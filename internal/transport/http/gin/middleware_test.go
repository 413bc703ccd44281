package httpgin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware_Generates(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	got := w.Header().Get("X-Request-ID")
	require.NotEmpty(t, got)
	_, err := uuid.Parse(got)
	assert.NoError(t, err)
}

func TestRequestIDMiddleware_Propagates(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestCallerID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(header string) (int64, bool, int) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			c.Request.Header.Set("X-User-ID", header)
		}
		id, ok := callerID(c)
		return id, ok, w.Code
	}

	id, ok, _ := run("42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, ok, code := run("")
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, code)

	_, ok, code = run("abc")
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, code)

	_, ok, _ = run("-1")
	assert.False(t, ok)
}

func TestParseIDList(t *testing.T) {
	assert.Nil(t, parseIDList(""))
	assert.Equal(t, []int64{1, 2, 3}, parseIDList("1,2,3"))
	assert.Equal(t, []int64{4, 6}, parseIDList("4, x, 6"))
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 10, parseIntDefault("", 10))
	assert.Equal(t, 7, parseIntDefault("7", 10))
	assert.Equal(t, 10, parseIntDefault("seven", 10))
}
