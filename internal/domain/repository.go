package domain

import "context"

// HistoryRepository は、キーごとのHistoryLogを永続化するためのインターフェースです
type HistoryRepository interface {
	// Load は、指定されたキーの履歴を読み込みます。値が存在しない場合は空の履歴を返します。
	Load(ctx context.Context, key string) (HistoryLog, error)

	// Save は、指定されたキーに容量で切り詰めた履歴を書き込みます
	Save(ctx context.Context, key string, log HistoryLog) error

	// Delete は、指定されたキーの履歴を削除します
	Delete(ctx context.Context, key string) error
}
