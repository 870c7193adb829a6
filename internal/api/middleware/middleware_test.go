package middleware

import (
	"BuilderCentral/internal/api/config"
	"BuilderCentral/internal/api/dto"
	"BuilderCentral/internal/pkg/consts"
	"BuilderCentral/internal/pkg/logger"
	"BuilderCentral/internal/pkg/response"
	"BuilderCentral/internal/pkg/security"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBlacklist map[string]bool

func (m memBlacklist) Exists(_ context.Context, key string) (bool, error) {
	return m[key], nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWT() *security.JWTManager {
	return security.NewJWTManager(config.JWTConfig{Secret: "middleware-secret", ExpirationHours: 1})
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var res dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func authEngine(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/me", mw, func(c *gin.Context) {
		ctxUser, _ := c.Request.Context().Value(logger.UserIDKey).(string)
		response.Success(c, gin.H{
			"id":    c.GetString(consts.ContextUserID),
			"name":  c.GetString(consts.ContextUserName),
			"ctxId": ctxUser,
		})
	})
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	jwt := newJWT()
	blacklist := memBlacklist{}
	r := authEngine(AuthMiddleware(jwt, blacklist))

	token, err := jwt.GenerateToken("665f1c2b9a1e4a0012345678", "ada@example.com", "Ada")
	require.NoError(t, err)

	res := decode(t, get(r, token))
	assert.Equal(t, response.Ok, res.Code)
	data := res.Data.(map[string]interface{})
	assert.Equal(t, "665f1c2b9a1e4a0012345678", data["id"])
	assert.Equal(t, "Ada", data["name"])
	assert.Equal(t, "665f1c2b9a1e4a0012345678", data["ctxId"])

	res = decode(t, get(r, ""))
	assert.Equal(t, response.Unauthorized, res.Code)
	assert.Equal(t, "Authentication required", res.Message)

	res = decode(t, get(r, "garbage"))
	assert.Equal(t, response.Unauthorized, res.Code)

	signature, err := security.ExtractSignature(token)
	require.NoError(t, err)
	blacklist[consts.TokenBlacklistKey+signature] = true
	res = decode(t, get(r, token))
	assert.Equal(t, response.Unauthorized, res.Code)
}

func TestAuthOptionalMiddleware(t *testing.T) {
	jwt := newJWT()
	r := authEngine(AuthOptionalMiddleware(jwt, memBlacklist{}))

	res := decode(t, get(r, ""))
	assert.Equal(t, response.Ok, res.Code)
	assert.Equal(t, "", res.Data.(map[string]interface{})["id"])

	res = decode(t, get(r, "garbage"))
	assert.Equal(t, response.Ok, res.Code)
	assert.Equal(t, "", res.Data.(map[string]interface{})["id"])

	token, err := jwt.GenerateToken("665f1c2b9a1e4a0012345678", "ada@example.com", "Ada")
	require.NoError(t, err)
	res = decode(t, get(r, token))
	assert.Equal(t, "665f1c2b9a1e4a0012345678", res.Data.(map[string]interface{})["id"])
}

func TestTraceMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddleware())
	r.GET("/trace", func(c *gin.Context) {
		id, _ := c.Request.Context().Value(logger.TraceIDKey).(string)
		c.String(http.StatusOK, id)
	})

	req := httptest.NewRequest(http.MethodGet, "/trace", nil)
	req.Header.Set(TraceHeader, "trace-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "trace-123", w.Body.String())
	assert.Equal(t, "trace-123", w.Header().Get(TraceHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trace", nil))
	assert.Len(t, w.Header().Get(TraceHeader), 36)
	assert.Equal(t, w.Header().Get(TraceHeader), w.Body.String())
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://builder.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://builder.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMaskSecrets(t *testing.T) {
	body := `{"email":"a@b.c","password":"hunter22","newPassword" : "x"}`
	assert.Equal(t, `{"email":"a@b.c","password":"***","newPassword":"***"}`, maskSecrets(body))
}
