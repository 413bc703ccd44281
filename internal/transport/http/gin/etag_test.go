package httpgin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONWithCache(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/things", func(c *gin.Context) {
		writeJSONWithCache(c, http.StatusOK, []string{"a", "b"}, "public, max-age=15", true)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/things", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["a","b"]`, w.Body.String())
	assert.Equal(t, "public, max-age=15", w.Header().Get("Cache-Control"))

	tag := w.Header().Get("ETag")
	require.NotEmpty(t, tag)
	assert.True(t, tag[0] == 'W')

	// Replaying with the tag short-circuits to 304.
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/things", nil)
	req2.Header.Set("If-None-Match", tag)
	r.ServeHTTP(w2, req2)

	assert.Equal(t, http.StatusNotModified, w2.Code)
	assert.Empty(t, w2.Body.String())
}

func TestWriteJSONWithCache_TagChangesWithBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	serve := func(v any) *httptest.ResponseRecorder {
		r := gin.New()
		r.GET("/x", func(c *gin.Context) {
			writeJSONWithCache(c, http.StatusOK, v, "", false)
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		return w
	}

	w1 := serve(map[string]int{"n": 1})
	w2 := serve(map[string]int{"n": 2})

	assert.NotEqual(t, w1.Header().Get("ETag"), w2.Header().Get("ETag"))
	assert.Empty(t, w1.Header().Get("Cache-Control"))
}
