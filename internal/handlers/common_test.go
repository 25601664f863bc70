package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestRespondErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		msg  string
	}{
		{"validation", invalid("quantity must be positive"), http.StatusBadRequest, "quantity must be positive"},
		{"not found", gorm.ErrRecordNotFound, http.StatusNotFound, "Order not found"},
		{"duplicate", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), http.StatusConflict, "Order already exists"},
		{"foreign key", fmt.Errorf("insert: %w", gorm.ErrForeignKeyViolated), http.StatusBadRequest, "Order references a record that does not exist"},
		{"other", errors.New("disk full"), http.StatusInternalServerError, "Failed to process Order"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/procurement-orders", nil)

			respondError(c, tt.err, "Order")

			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.msg, errorOf(t, w))
		})
	}
}
