package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/prasetyadi/graphmail-pipeline/internal/errors"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestError_MapsNotFound(t *testing.T) {
	c, rec := newContext()

	err := Error(c, apperrors.Wrap(apperrors.ErrNotFound, "record lookup"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"NOT_FOUND"`)
	assert.Contains(t, rec.Body.String(), "record lookup")
}

func TestError_MapsDuplicate(t *testing.T) {
	c, rec := newContext()

	err := Error(c, apperrors.ErrDuplicateEntry)
	require.NoError(t, err)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"DUPLICATE_ENTRY"`)
}

func TestError_UnknownErrorIsInternal(t *testing.T) {
	c, rec := newContext()

	err := Error(c, errors.New("boom"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"INTERNAL_ERROR"`)
}

func TestInternalError(t *testing.T) {
	c, rec := newContext()

	err := InternalError(c, "something broke")
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.Contains(t, rec.Body.String(), "something broke")
}
