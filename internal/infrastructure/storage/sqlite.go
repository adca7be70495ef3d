package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"vibestyle/internal/domain"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteHistoryRepository は、SQLiteのキーバリューテーブルに履歴を保存するHistoryRepositoryの実装です
type SQLiteHistoryRepository struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite は、SQLiteデータベースを開き、テーブルを作成します
func OpenSQLite(ctx context.Context, path string) (*SQLiteHistoryRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("データベースのオープンに失敗: %w", err)
	}

	// :memory: は接続ごとに別のデータベースになるため1接続に制限する
	if path == ":memory:" || strings.Contains(path, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("PRAGMAの設定に失敗 (%s): %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("テーブルの作成に失敗: %w", err)
	}

	return &SQLiteHistoryRepository{db: db, now: time.Now}, nil
}

// Load は、指定されたキーの履歴を読み込みます。キーが存在しない場合は空の履歴を返します。
func (r *SQLiteHistoryRepository) Load(ctx context.Context, key string) (domain.HistoryLog, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.HistoryLog{}, nil
	}
	if err != nil {
		return domain.HistoryLog{}, fmt.Errorf("履歴の読み込みに失敗: %w", err)
	}

	return domain.DecodeHistoryLog([]byte(value))
}

// Save は、履歴を容量で切り詰めた上で書き込みます
func (r *SQLiteHistoryRepository) Save(ctx context.Context, key string, log domain.HistoryLog) error {
	data, err := log.MarshalJSON()
	if err != nil {
		return fmt.Errorf("履歴のエンコードに失敗: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), r.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("履歴の書き込みに失敗: %w", err)
	}
	return nil
}

// Delete は、指定されたキーの履歴を削除します。存在しないキーはエラーになりません。
func (r *SQLiteHistoryRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("履歴の削除に失敗: %w", err)
	}
	return nil
}

// Keys は、prefixで始まるキーを更新日時の新しい順に返します
func (r *SQLiteHistoryRepository) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key FROM kv WHERE substr(key, 1, ?) = ? ORDER BY updated_at DESC`, len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("キー一覧の取得に失敗: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("キーの読み取りに失敗: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// putRaw は、値を検証せずに書き込みます
func (r *SQLiteHistoryRepository) putRaw(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, ?)`, key, value, r.now().UnixMilli())
	return err
}

// Close は、データベース接続を閉じます
func (r *SQLiteHistoryRepository) Close() error {
	return r.db.Close()
}
