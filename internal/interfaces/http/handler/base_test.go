package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resto/backend/internal/domain/shared"
	"github.com/resto/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(method, path string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetUserID(t *testing.T) {
	t.Run("reads JWT claim first", func(t *testing.T) {
		c, _ := newTestContext("GET", "/")
		claimID := uuid.New()
		c.Set("jwt_user_id", claimID.String())
		c.Request.Header.Set("X-User-ID", uuid.New().String())

		id, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, claimID, id)
	})

	t.Run("falls back to header", func(t *testing.T) {
		c, _ := newTestContext("GET", "/")
		headerID := uuid.New()
		c.Request.Header.Set("X-User-ID", headerID.String())

		id, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, headerID, id)
	})

	t.Run("errors when absent", func(t *testing.T) {
		c, _ := newTestContext("GET", "/")

		_, err := getUserID(c)
		assert.Error(t, err)
	})

	t.Run("errors on malformed header", func(t *testing.T) {
		c, _ := newTestContext("GET", "/")
		c.Request.Header.Set("X-User-ID", "not-a-uuid")

		_, err := getUserID(c)
		assert.Error(t, err)
	})
}

func TestHandleError(t *testing.T) {
	h := &BaseHandler{}

	t.Run("not found maps to 404 with domain code", func(t *testing.T) {
		c, w := newTestContext("GET", "/")
		h.HandleError(c, shared.ErrNotFound)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	})

	t.Run("insufficient stock maps to 422", func(t *testing.T) {
		c, w := newTestContext("POST", "/")
		h.HandleError(c, shared.ErrInsufficientStock)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Code)
	})

	t.Run("unknown error becomes opaque 500", func(t *testing.T) {
		c, w := newTestContext("GET", "/")
		h.HandleError(c, assert.AnError)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
		assert.NotContains(t, resp.Error.Message, assert.AnError.Error())
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, w := newTestContext("GET", "/")
		h.HandleError(c, nil)

		assert.Empty(t, w.Body.String())
	})
}

func TestParseUUIDParam(t *testing.T) {
	h := &BaseHandler{}

	t.Run("valid UUID", func(t *testing.T) {
		c, _ := newTestContext("GET", "/")
		want := uuid.New()
		c.Params = gin.Params{{Key: "id", Value: want.String()}}

		id, ok := h.parseUUIDParam(c, "id")
		assert.True(t, ok)
		assert.Equal(t, want, id)
	})

	t.Run("invalid UUID replies 400", func(t *testing.T) {
		c, w := newTestContext("GET", "/")
		c.Params = gin.Params{{Key: "id", Value: "abc"}}

		_, ok := h.parseUUIDParam(c, "id")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBindListFilter(t *testing.T) {
	h := &BaseHandler{}

	t.Run("defaults applied", func(t *testing.T) {
		c, _ := newTestContext("GET", "/?page=0")

		filter, ok := h.bindListFilter(c)
		assert.True(t, ok)
		assert.Equal(t, 1, filter.Page)
		assert.Equal(t, 50, filter.PageSize)
	})

	t.Run("explicit values kept", func(t *testing.T) {
		c, _ := newTestContext("GET", "/?page=3&page_size=10&order_by=expiry_date&order_dir=asc")

		filter, ok := h.bindListFilter(c)
		assert.True(t, ok)
		assert.Equal(t, 3, filter.Page)
		assert.Equal(t, 10, filter.PageSize)
		assert.Equal(t, "expiry_date", filter.OrderBy)
		assert.Equal(t, "asc", filter.OrderDir)
	})
}

func TestRequestIDEchoedInErrors(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext("GET", "/")
	c.Set("request_id", "req-123")

	h.NotFound(c, "missing")

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}
