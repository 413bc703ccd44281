package httpgin

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/dkovalenko/railgo/internal/domain"
	"github.com/dkovalenko/railgo/internal/service/catalog"
	"github.com/dkovalenko/railgo/internal/service/journeys"
	"github.com/dkovalenko/railgo/internal/service/orders"
)

func TestRespondErr(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"catalog not found", catalog.ErrNotFound, http.StatusNotFound},
		{"wrapped catalog not found", fmt.Errorf("op:%w", catalog.ErrNotFound), http.StatusNotFound},
		{"name taken", catalog.ErrNameTaken, http.StatusConflict},
		{"bad reference", catalog.ErrBadReference, http.StatusBadRequest},
		{"journey not found", journeys.ErrJourneyNotFound, http.StatusNotFound},
		{"journey bad reference", journeys.ErrBadReference, http.StatusBadRequest},
		{"empty order", orders.ErrEmptyOrder, http.StatusBadRequest},
		{"order journey missing", orders.ErrJourneyNotFound, http.StatusNotFound},
		{"seat taken sentinel", orders.ErrSeatTaken, http.StatusConflict},
		{
			"seat taken detail",
			fmt.Errorf("op:%w", &orders.SeatTakenError{JourneyID: 1, Cargo: 2, Place: 3}),
			http.StatusConflict,
		},
		{
			"seat out of range",
			fmt.Errorf("op:%w", &domain.SeatRangeError{Field: "cargo", Bound: "cargo_num", Limit: 8}),
			http.StatusBadRequest,
		},
		{"order not found", orders.ErrOrderNotFound, http.StatusNotFound},
		{
			"rate limited",
			fmt.Errorf("op:%w, retry in 12s", orders.ErrRateLimited),
			http.StatusTooManyRequests,
		},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondErr(c, tt.err)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

// Range errors surface the exact validation message to the client.
func TestRespondErr_SeatRangeMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondErr(c, fmt.Errorf("op:%w", &domain.SeatRangeError{
		Field: "place", Bound: "places_in_cargo", Limit: 40,
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(
		t,
		`{"error":"place number must be in available range: (1, places_in_cargo): (1, 40)"}`,
		w.Body.String(),
	)
}

func TestRespondErr_RateLimitedRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondErr(c, fmt.Errorf("op:%w", orders.ErrRateLimited))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestEmptyList(t *testing.T) {
	assert.Equal(t, []int{}, emptyList[int](nil))
	assert.Equal(t, []int{1}, emptyList([]int{1}))
}
