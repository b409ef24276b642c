package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nginxadmin/backend/internal/models"
)

func newUpstreamRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewUpstreamHandler(db)
	r.GET("/upstreams", h.List)
	r.GET("/upstreams/:id", h.Get)
	r.POST("/upstreams", h.Create)
	r.PUT("/upstreams/:id", h.Update)
	r.DELETE("/upstreams/:id", h.Delete)
	return r
}

func TestUpstreamHandler_CreateAndGet(t *testing.T) {
	db := OpenTestDB(t)
	r := newUpstreamRouter(db)

	body := `{"name":"app_backend","server":"127.0.0.1:3000","keep_alive":32}`
	req := httptest.NewRequest(http.MethodPost, "/upstreams", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Upstream
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.UpstreamStatusActive, created.Status)

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/upstreams/%d", created.ID), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "app_backend")
}

func TestUpstreamHandler_CreateRejectsMissingFields(t *testing.T) {
	db := OpenTestDB(t)
	r := newUpstreamRouter(db)

	req := httptest.NewRequest(http.MethodPost, "/upstreams", bytes.NewBufferString(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpstreamHandler_DuplicateNameConflicts(t *testing.T) {
	db := OpenTestDB(t)
	r := newUpstreamRouter(db)

	body := `{"name":"app_backend","server":"127.0.0.1:3000"}`
	for i, wantCode := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/upstreams", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, wantCode, w.Code, "request %d", i)
	}
}

func TestUpstreamHandler_Update(t *testing.T) {
	db := OpenTestDB(t)
	r := newUpstreamRouter(db)

	upstream := models.Upstream{Name: "app", Server: "127.0.0.1:3000", Status: models.UpstreamStatusActive}
	require.NoError(t, db.Create(&upstream).Error)

	body := `{"name":"app","server":"127.0.0.1:4000","status":"inactive"}`
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/upstreams/%d", upstream.ID), bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Upstream
	require.NoError(t, db.First(&reloaded, upstream.ID).Error)
	assert.Equal(t, "127.0.0.1:4000", reloaded.Server)
	assert.Equal(t, models.UpstreamStatusInactive, reloaded.Status)
}

func TestUpstreamHandler_DeleteRefusesWhenReferenced(t *testing.T) {
	db := OpenTestDB(t)
	r := newUpstreamRouter(db)

	upstream := models.Upstream{Name: "app", Server: "127.0.0.1:3000"}
	require.NoError(t, db.Create(&upstream).Error)
	location := models.Location{ServerID: 1, UpstreamID: upstream.ID, Path: "/"}
	require.NoError(t, db.Create(&location).Error)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/upstreams/%d", upstream.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	require.NoError(t, db.Delete(&location).Error)
	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/upstreams/%d", upstream.ID), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUpstreamHandler_GetNotFound(t *testing.T) {
	db := OpenTestDB(t)
	r := newUpstreamRouter(db)

	req := httptest.NewRequest(http.MethodGet, "/upstreams/999", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
