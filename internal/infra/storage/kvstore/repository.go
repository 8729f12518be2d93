package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RelayBot/pkg/sqlbuilder"
)

const tableName = "kv_store"

// Синтаксис ON CONFLICT ... EXCLUDED одинаков для PostgreSQL и SQLite (>= 3.24)
const upsertSuffix = "ON CONFLICT (key_name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at"

const createTableQuery = `CREATE TABLE IF NOT EXISTS kv_store (
	key_name   VARCHAR(255) PRIMARY KEY,
	value      TEXT         NOT NULL,
	updated_at TIMESTAMP    NOT NULL
)`

// Repository строковое key-value хранилище поверх SQL таблицы
type Repository struct {
	db      DBExecutor
	builder squirrel.StatementBuilderType
	now     func() time.Time
}

// NewRepository создает репозиторий для указанного драйвера (sqlite или postgres)
func NewRepository(db DBExecutor, driver string) *Repository {
	return &Repository{
		db:      db,
		builder: sqlbuilder.ForDriver(driver),
		now:     time.Now,
	}
}

// Migrate создаёт таблицу хранилища, если её ещё нет
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTableQuery); err != nil {
		return fmt.Errorf("%w: Migrate - create table: %v", ErrExecQuery, err)
	}
	return nil
}

// Get возвращает значение по ключу или ErrNotFound
func (r *Repository) Get(ctx context.Context, key string) (string, error) {
	query, args, err := r.builder.Select("value").
		From(tableName).
		Where(squirrel.Eq{"key_name": key}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var value string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: Get - scan value: %v", ErrScanRow, err)
	}

	return value, nil
}

// Set записывает значение (вставка или обновление)
func (r *Repository) Set(ctx context.Context, key, value string) error {
	query, args, err := r.builder.Insert(tableName).
		Columns("key_name", "value", "updated_at").
		Values(key, value, r.now().UTC()).
		Suffix(upsertSuffix).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Set - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Set - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// Delete удаляет ключ; отсутствие ключа не считается ошибкой
func (r *Repository) Delete(ctx context.Context, key string) error {
	query, args, err := r.builder.Delete(tableName).
		Where(squirrel.Eq{"key_name": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}
