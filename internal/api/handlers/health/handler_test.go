package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-RelayBot/internal/domain"
)

type fakePinger struct {
	err error
}

func (p fakePinger) PingContext(context.Context) error { return p.err }

type fakeRelay struct{}

func (fakeRelay) State() domain.RelayState { return domain.RelayPolling }

func TestHandler_Handle(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(fakePinger{}, fakeRelay{}).Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","storage":"ok","relay":"polling"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	NewHandler(fakePinger{err: errors.New("database is locked")}, fakeRelay{}).
		Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unhealthy")
}
