package errors

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

func TestParseError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		context    string
		wantStatus int
		wantCode   string
	}{
		{name: "nil", err: nil, wantStatus: http.StatusInternalServerError, wantCode: InternalServerError},
		{name: "not found", err: fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound), context: "get user", wantStatus: http.StatusNotFound, wantCode: ResourceNotFound},
		{name: "postgres duplicate email", err: errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`), wantStatus: http.StatusConflict, wantCode: AuthEmailAlreadyExists},
		{name: "sqlite duplicate email", err: errors.New("UNIQUE constraint failed: users.email"), wantStatus: http.StatusConflict, wantCode: AuthEmailAlreadyExists},
		{name: "duplicate primary key", err: errors.New("UNIQUE constraint failed: products.id"), wantStatus: http.StatusConflict, wantCode: ResourceAlreadyExists},
		{name: "not null", err: errors.New("NOT NULL constraint failed: products.name"), wantStatus: http.StatusBadRequest, wantCode: ValidationRequired},
		{name: "connection", err: errors.New("dial tcp: connection refused"), wantStatus: http.StatusServiceUnavailable, wantCode: InternalDatabaseError},
		{name: "unknown", err: errors.New("boom"), context: "update product", wantStatus: http.StatusInternalServerError, wantCode: InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantStatus, info.Status)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
			if tt.err != nil {
				assert.NotContains(t, info.Message, tt.err.Error())
			}
		})
	}
}

func TestParseError_NotFoundMessage(t *testing.T) {
	assert.Equal(t, "User not found", ParseError(gorm.ErrRecordNotFound, "get user").Message)
	assert.Equal(t, "Product not found", ParseError(gorm.ErrRecordNotFound, "delete product").Message)
}

func TestParseAndRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ParseAndRespond(c, gorm.ErrRecordNotFound, "get product")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"RESOURCE_NOT_FOUND","message":"Product not found"}`, w.Body.String())
}

func TestRespondWithValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithValidationError(c, map[string]string{"email": "must be a valid email address"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"VALIDATION_INVALID_INPUT","message":"Invalid input","fields":{"email":"must be a valid email address"}}`, w.Body.String())
}
