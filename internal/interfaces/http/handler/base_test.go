package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/StephaneWamba/InvoiceFlow/internal/domain/shared"
	"github.com/StephaneWamba/InvoiceFlow/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(c *gin.Context)
		expected string
	}{
		{
			name: "from context",
			setup: func(c *gin.Context) {
				c.Set(RequestIDKey, "ctx-id-1")
			},
			expected: "ctx-id-1",
		},
		{
			name: "from header when context empty",
			setup: func(c *gin.Context) {
				c.Request.Header.Set("X-Request-ID", "hdr-id-2")
			},
			expected: "hdr-id-2",
		},
		{
			name: "context wins over header",
			setup: func(c *gin.Context) {
				c.Set(RequestIDKey, "ctx-id-1")
				c.Request.Header.Set("X-Request-ID", "hdr-id-2")
			},
			expected: "ctx-id-1",
		},
		{
			name:     "empty when absent",
			setup:    func(c *gin.Context) {},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(t)
			tt.setup(c)
			assert.Equal(t, tt.expected, getRequestID(c))
		})
	}
}

func TestParseUUIDParam(t *testing.T) {
	c, _ := newTestContext(t)
	id := uuid.New()
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	parsed, err := parseUUIDParam(c, "id")
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	_, err = parseUUIDParam(c, "id")
	assert.Error(t, err)
}

func TestBaseHandler_Success(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.Success(c, map[string]string{"name": "Q3 Audit"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandler_Created(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.Created(c, map[string]string{"id": uuid.New().String()})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestBaseHandler_NoContent(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.NoContent(c)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestBaseHandler_Error(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)
	c.Set(RequestIDKey, "req-42")

	h.Error(c, http.StatusTeapot, "SOME_CODE", "some message")

	assert.Equal(t, http.StatusTeapot, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SOME_CODE", resp.Error.Code)
	assert.Equal(t, "some message", resp.Error.Message)
	assert.Equal(t, "req-42", resp.Error.RequestID)
}

func TestBaseHandler_ValidationError(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.ValidationError(c, []dto.ValidationDetail{
		{Field: "name", Message: "name is required"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "name", resp.Error.Details[0].Field)
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "workspace not found",
			err:            shared.NewDomainError("WORKSPACE_NOT_FOUND", "Workspace not found"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   "WORKSPACE_NOT_FOUND",
		},
		{
			name:           "reconcile in progress",
			err:            shared.ErrReconcileInProgress,
			expectedStatus: http.StatusConflict,
			expectedCode:   "RECONCILE_IN_PROGRESS",
		},
		{
			name:           "file too large",
			err:            shared.NewDomainError("FILE_TOO_LARGE", "File exceeds the upload limit"),
			expectedStatus: http.StatusRequestEntityTooLarge,
			expectedCode:   "FILE_TOO_LARGE",
		},
		{
			name:           "legacy generic code is normalized",
			err:            shared.NewDomainError("NOT_FOUND", "gone"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   dto.ErrCodeNotFound,
		},
		{
			name:           "unknown error type",
			err:            errors.New("database exploded"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext(t)

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		h := &BaseHandler{}
		c, w := newTestContext(t)
		h.HandleError(c, nil)
		assert.Empty(t, w.Body.String())
	})
}

func TestBaseHandler_HandleError_HidesInternalDetails(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.HandleError(c, errors.New("pq: connection refused"))

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.NotContains(t, resp.Error.Message, "pq:")
}
