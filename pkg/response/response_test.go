package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"notify-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestErrorRendersKindAndDetails(t *testing.T) {
	code, body := render(t, apperror.Validation("unknown recipients").WithDetail("invalid_ids", []string{"u9"}))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "unknown recipients", body["error"])
	assert.Equal(t, "validation", body["code"])
	assert.Equal(t, map[string]interface{}{"invalid_ids": []interface{}{"u9"}}, body["details"])
}

func TestErrorUnclassified(t *testing.T) {
	code, body := render(t, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal", body["code"])
	assert.NotContains(t, body, "details")
}
