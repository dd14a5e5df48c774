package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
)

func render(t *testing.T, err error) (int, Body) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Error(c, err)

	var body Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestErrorMapsKinds(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{apperr.NotFound("club"), http.StatusNotFound},
		{apperr.ErrDuplicateEdge, http.StatusConflict},
		{apperr.ErrAlreadyAssigned, http.StatusConflict},
		{apperr.ErrPercentageExceeded, http.StatusUnprocessableEntity},
		{apperr.ErrNoFieldsToUpdate, http.StatusBadRequest},
		{apperr.Validation("bad", "name"), http.StatusBadRequest},
		{apperr.ErrForbidden, http.StatusForbidden},
	}
	for _, tc := range cases {
		code, body := render(t, tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
		assert.False(t, body.Success)
	}
}

func TestErrorHidesInternalCause(t *testing.T) {
	code, body := render(t, apperr.Internal(errors.New("pq: relation clubs does not exist")))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal error", body.Message)

	code, body = render(t, errors.New("raw driver error"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal error", body.Message)
}

func TestValidationDetailsRendered(t *testing.T) {
	_, body := render(t, apperr.Validation("invalid input", "ownership_percentage"))
	assert.Equal(t, "invalid input", body.Message)
	assert.Equal(t, []string{"ownership_percentage"}, body.Errors)
}
