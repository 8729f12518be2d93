package dbmetrics

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-RelayBot/pkg/metrics"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "metrics.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDB_ObservesQueries(t *testing.T) {
	ctx := context.Background()
	m := metrics.New("test")
	db := Wrap(openSQLite(t), m)

	_, err := db.ExecContext(ctx, "CREATE TABLE t (v INTEGER)")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO t (v) VALUES (?)", 42)
	require.NoError(t, err)

	var v int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT v FROM t").Scan(&v))
	assert.Equal(t, 42, v)

	rows, err := db.QueryContext(ctx, "SELECT v FROM t")
	require.NoError(t, err)
	require.NoError(t, rows.Close())

	assert.Equal(t, 3, testutil.CollectAndCount(m.DBQueryDuration))
}

func TestDB_NilMetrics(t *testing.T) {
	db := Wrap(openSQLite(t), nil)

	_, err := db.ExecContext(context.Background(), "CREATE TABLE t (v INTEGER)")
	assert.NoError(t, err)
}

func TestDB_CollectStatsStops(t *testing.T) {
	m := metrics.New("test")
	db := Wrap(openSQLite(t), m)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		db.CollectStats(time.Millisecond, stop)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	close(stop)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("CollectStats did not stop")
	}
}
