package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"claimos/internal/handler"
)

type fakeDB struct{ err error }

func (f fakeDB) PingContext(ctx context.Context) error { return f.err }

type fakeRedis struct{ err error }

func (f fakeRedis) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetErr(f.err)
	return cmd
}

func healthContext() (*httptest.ResponseRecorder, *gin.Context) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", nil)
	return w, c
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := handler.NewHealthHandler(fakeDB{}, nil)

	w, c := healthContext()
	h.Liveness(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthHandler_Readiness_AllStoresUp(t *testing.T) {
	h := handler.NewHealthHandler(fakeDB{}, fakeRedis{})

	w, c := healthContext()
	h.Readiness(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthHandler_Readiness_DatabaseDown(t *testing.T) {
	h := handler.NewHealthHandler(fakeDB{err: assert.AnError}, fakeRedis{})

	w, c := healthContext()
	h.Readiness(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "claim store not reachable")
}

func TestHealthHandler_Readiness_LockStoreDown(t *testing.T) {
	h := handler.NewHealthHandler(fakeDB{}, fakeRedis{err: assert.AnError})

	w, c := healthContext()
	h.Readiness(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "session lock store not reachable")
}

func TestHealthHandler_Readiness_NoLockStoreConfigured(t *testing.T) {
	h := handler.NewHealthHandler(fakeDB{}, nil)

	w, c := healthContext()
	h.Readiness(c)

	assert.Equal(t, http.StatusOK, w.Code)
}
