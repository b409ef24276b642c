package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nginxadmin/backend/internal/models"
	"github.com/nginxadmin/backend/internal/nginx"
	"github.com/nginxadmin/backend/internal/services"
)

func newConfigRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	settingsService := services.NewSettingsService(db, nginx.NewScriptRunner(0))
	base := t.TempDir()
	_, err := settingsService.SaveSettings(models.NginxSettings{
		ConfigPath:          filepath.Join(base, "nginx.conf"),
		SSLCertificatesPath: filepath.Join(base, "certs"),
		SSLPrivateKeysPath:  filepath.Join(base, "private"),
	})
	require.NoError(t, err)

	generator, err := nginx.NewGenerator(db, settingsService)
	require.NoError(t, err)

	h := NewNginxConfigHandler(generator, nginx.NewVersionStore(db), settingsService)

	r := gin.New()
	r.GET("/nginx/config", h.GetConfig)
	r.GET("/nginx/config/download", h.Download)
	r.GET("/nginx/config/server/:id", h.GetServerConfig)
	r.POST("/nginx/config/validate", h.Validate)
	r.POST("/nginx/config/deploy", h.Deploy)
	r.POST("/nginx/config/versions", h.SaveVersion)
	r.GET("/nginx/config/versions", h.ListVersions)
	r.GET("/nginx/config/versions/active", h.GetActiveVersion)
	r.PUT("/nginx/config/versions/:id", h.RenameVersion)
	return r
}

func seedServer(t *testing.T, db *gorm.DB) models.HttpServer {
	t.Helper()

	upstream := models.Upstream{Name: "web_backend", Server: "127.0.0.1:3000", Status: models.UpstreamStatusActive}
	require.NoError(t, db.Create(&upstream).Error)
	port := models.ListeningPort{Name: "web", Port: 80, Protocol: "http"}
	require.NoError(t, db.Create(&port).Error)
	server := models.HttpServer{Name: "web", ListeningPortID: port.ID, Status: models.HttpServerStatusActive, AccessLogPath: "/dev/null", ErrorLogPath: "/dev/null", LogLevel: "warn"}
	require.NoError(t, db.Create(&server).Error)
	location := models.Location{ServerID: server.ID, UpstreamID: upstream.ID, Path: "/"}
	require.NoError(t, db.Create(&location).Error)
	return server
}

func TestNginxConfigHandler_GetConfig(t *testing.T) {
	db := OpenTestDB(t)
	seedServer(t, db)
	r := newConfigRouter(t, db)

	req := httptest.NewRequest(http.MethodGet, "/nginx/config", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Config string `json:"config"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Config, "upstream web_backend {")
	assert.Contains(t, resp.Config, "listen 80;")
}

func TestNginxConfigHandler_GetServerConfigNotFound(t *testing.T) {
	db := OpenTestDB(t)
	r := newConfigRouter(t, db)

	req := httptest.NewRequest(http.MethodGet, "/nginx/config/server/42", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNginxConfigHandler_Download(t *testing.T) {
	db := OpenTestDB(t)
	seedServer(t, db)
	r := newConfigRouter(t, db)

	req := httptest.NewRequest(http.MethodGet, "/nginx/config/download", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "nginx.conf")
	assert.Contains(t, w.Body.String(), "server {")
}

func TestNginxConfigHandler_ValidateSuppliedConfig(t *testing.T) {
	db := OpenTestDB(t)
	r := newConfigRouter(t, db)

	body := `{"config":"server {\n    server_name example.com;\n}"}`
	req := httptest.NewRequest(http.MethodPost, "/nginx/config/validate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result nginx.ValidationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "Server blocks must contain listen directive")
}

func TestNginxConfigHandler_ValidateGeneratedConfig(t *testing.T) {
	db := OpenTestDB(t)
	seedServer(t, db)
	r := newConfigRouter(t, db)

	req := httptest.NewRequest(http.MethodPost, "/nginx/config/validate", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result nginx.ValidationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Valid)
}

func TestNginxConfigHandler_VersionLifecycle(t *testing.T) {
	db := OpenTestDB(t)
	seedServer(t, db)
	r := newConfigRouter(t, db)

	// Save two full-config snapshots; the second becomes the active one.
	for _, name := range []string{"first", "second"} {
		body := `{"name":"` + name + `"}`
		req := httptest.NewRequest(http.MethodPost, "/nginx/config/versions", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/nginx/config/versions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var versions []models.ConfigVersion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &versions))
	assert.Len(t, versions, 2)

	req = httptest.NewRequest(http.MethodGet, "/nginx/config/versions/active", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var active models.ConfigVersion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &active))
	assert.Equal(t, "second", active.Name)

	// Rename the active snapshot.
	body := `{"name":"renamed"}`
	req = httptest.NewRequest(http.MethodPut, fmt.Sprintf("/nginx/config/versions/%d", active.ID), bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "renamed")
}

func TestNginxConfigHandler_Deploy(t *testing.T) {
	db := OpenTestDB(t)
	seedServer(t, db)
	r := newConfigRouter(t, db)

	req := httptest.NewRequest(http.MethodPost, "/nginx/config/deploy", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Path string `json:"path"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Path)
}
