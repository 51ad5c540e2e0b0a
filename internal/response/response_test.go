package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(h gin.HandlerFunc, reqID string) *httptest.ResponseRecorder {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestSuccess(t *testing.T) {
	w := serve(func(c *gin.Context) { Success(c, http.StatusOK, gin.H{"ok": true}) }, "req-1")

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, body.Error)
	assert.Equal(t, "req-1", body.Metadata.RequestID)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
}

func TestFailWithReason(t *testing.T) {
	w := serve(func(c *gin.Context) {
		FailWithReason(c, http.StatusConflict, ErrEvaluationDenied, "expired", "El tiempo terminó.")
	}, "")

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, ErrEvaluationDenied, body.Error.Code)
	assert.Equal(t, "expired", body.Error.Reason)
	assert.Equal(t, "El tiempo terminó.", body.Error.Message)
	assert.NotEmpty(t, body.Metadata.RequestID)
}

func TestFailWithData(t *testing.T) {
	w := serve(func(c *gin.Context) {
		FailWithData(c, http.StatusBadGateway, ErrPartialFailure, gin.H{"completed": 1})
	}, "")

	var body struct {
		Data  map[string]int `json:"data"`
		Error ErrorBody      `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Data["completed"])
	assert.Equal(t, GetMessage(ErrPartialFailure), body.Error.Message)
}

func TestGetMessage_Fallback(t *testing.T) {
	assert.Equal(t, "Ocurrió un error inesperado.", GetMessage("SOMETHING_ELSE"))
}

func TestRequestIDMiddleware_ReplacesUnsafeIDs(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"markup", "<script>"},
		{"spaces", "a b"},
		{"too long", strings.Repeat("a", 65)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(func(c *gin.Context) { Success(c, http.StatusOK, RequestID(c)) }, tt.in)

			got := w.Header().Get("X-Request-ID")
			assert.NotEqual(t, tt.in, got)
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		})
	}
}
