package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/posdesk/printd/internal/registry"
)

func newGateRouter(t *testing.T, clients string, enabled bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	clientsPath := filepath.Join(dir, "clients.json")
	require.NoError(t, os.WriteFile(clientsPath, []byte(clients), 0o644))

	reg := registry.New(filepath.Join(dir, "printers.json"), clientsPath)
	auth := NewPrintKeyAuth(reg, enabled)

	r := gin.New()
	r.POST("/print", auth.Gate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doPrint(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/print", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGateDisabledPassesThrough(t *testing.T) {
	r := newGateRouter(t, `[]`, false)

	w := doPrint(r, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGateMissingCredentials(t *testing.T) {
	r := newGateRouter(t, `[{"id": "pos-1", "pin": "1234", "enabled": true}]`, true)

	assert.Equal(t, http.StatusUnauthorized, doPrint(r, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, doPrint(r, map[string]string{"x-client-id": "pos-1"}).Code)
	assert.Equal(t, http.StatusUnauthorized, doPrint(r, map[string]string{"x-print-key": "1234"}).Code)
}

func TestGateValidPlainPin(t *testing.T) {
	r := newGateRouter(t, `[{"id": "pos-1", "pin": "1234", "enabled": true}]`, true)

	w := doPrint(r, map[string]string{"x-client-id": "POS-1", "x-print-key": "1234"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGateValidBcryptPin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.MinCost)
	require.NoError(t, err)

	r := newGateRouter(t, `[{"id": "pos-1", "pin": "`+string(hash)+`", "enabled": true}]`, true)

	w := doPrint(r, map[string]string{"x-client-id": "pos-1", "x-print-key": "1234"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doPrint(r, map[string]string{"x-client-id": "pos-1", "x-print-key": "9999"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGateInvalidClient(t *testing.T) {
	r := newGateRouter(t, `[{"id": "pos-1", "pin": "1234", "enabled": true}]`, true)

	w := doPrint(r, map[string]string{"x-client-id": "ghost", "x-print-key": "1234"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGateWrongKey(t *testing.T) {
	r := newGateRouter(t, `[{"id": "pos-1", "pin": "1234", "enabled": true}]`, true)

	w := doPrint(r, map[string]string{"x-client-id": "pos-1", "x-print-key": "4321"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGateDisabledClient(t *testing.T) {
	r := newGateRouter(t, `[{"id": "pos-1", "pin": "1234", "enabled": false}]`, true)

	w := doPrint(r, map[string]string{"x-client-id": "pos-1", "x-print-key": "1234"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
