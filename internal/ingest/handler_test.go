package ingest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coverhub/pkg/models"
)

func newTestRouter(t *testing.T, secret string) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)

	router := gin.New()
	NewHandler(svc, nil, nil, secret).RegisterRoutes(router.Group("/api"))
	return router
}

func postSync(t *testing.T, router *gin.Engine, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/sync", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSyncEndpoint(t *testing.T) {
	router := newTestRouter(t, "")

	rec := postSync(t, router, models.SyncRequest{
		Songs: []models.IncomingSong{batchEntry("a", "c1", "c2")},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.SyncResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "inserted 1, updated 0, invalid 0", resp.Message)
}

func TestSyncEndpointRequiresSongs(t *testing.T) {
	router := newTestRouter(t, "")

	rec := postSync(t, router, map[string]any{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSyncEndpointRejectsBadJSON(t *testing.T) {
	router := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/sync", bytes.NewReader([]byte("{nope")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSyncEndpointEmptyBatchIsOK(t *testing.T) {
	router := newTestRouter(t, "")

	rec := postSync(t, router, models.SyncRequest{Songs: []models.IncomingSong{}}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSyncTokenGuard(t *testing.T) {
	const secret = "test-secret"
	router := newTestRouter(t, secret)
	body := models.SyncRequest{Songs: []models.IncomingSong{batchEntry("a", "c1")}}

	t.Run("missing token", func(t *testing.T) {
		rec := postSync(t, router, body, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := postSync(t, router, body, map[string]string{"Authorization": "Bearer nope"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := SignSyncToken([]byte("other-secret"), time.Minute)
		require.NoError(t, err)
		rec := postSync(t, router, body, map[string]string{"Authorization": "Bearer " + token})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := SignSyncToken([]byte(secret), time.Minute)
		require.NoError(t, err)
		rec := postSync(t, router, body, map[string]string{"Authorization": "Bearer " + token})
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
