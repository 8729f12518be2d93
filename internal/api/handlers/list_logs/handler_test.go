package list_logs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RelayBot/internal/service/journal"
)

func TestHandler_Handle(t *testing.T) {
	j := journal.New(10, nil)
	j.Info("one")
	j.Success("two")
	j.Error("three")
	h := NewHandler(j)

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/logs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Records, 3)
	assert.Equal(t, "one", resp.Records[0].Message)

	rec = httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/logs?limit=2", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Records, 2)
	assert.Equal(t, "two", resp.Records[0].Message)
	assert.Equal(t, "error", string(resp.Records[1].Severity))

	rec = httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/logs?limit=-1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
