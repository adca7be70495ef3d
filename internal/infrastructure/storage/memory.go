package storage

import (
	"context"
	"sync"

	"vibestyle/internal/domain"
)

// MemoryHistoryRepository は、メモリ上に履歴を保持するHistoryRepositoryの実装です
// プロセスの終了とともに履歴は失われます
type MemoryHistoryRepository struct {
	logs  map[string][]byte
	mutex sync.RWMutex
}

// NewMemoryHistoryRepository は新しいMemoryHistoryRepositoryインスタンスを作成します
func NewMemoryHistoryRepository() *MemoryHistoryRepository {
	return &MemoryHistoryRepository{
		logs: make(map[string][]byte),
	}
}

// Load は、指定されたキーの履歴を読み込みます
func (r *MemoryHistoryRepository) Load(ctx context.Context, key string) (domain.HistoryLog, error) {
	if ctx.Err() != nil {
		return domain.HistoryLog{}, ctx.Err()
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return domain.DecodeHistoryLog(r.logs[key])
}

// Save は、履歴をシリアライズして保存します
func (r *MemoryHistoryRepository) Save(ctx context.Context, key string, log domain.HistoryLog) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := log.MarshalJSON()
	if err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.logs[key] = data
	return nil
}

// Delete は、指定されたキーの履歴を削除します
func (r *MemoryHistoryRepository) Delete(ctx context.Context, key string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.logs, key)
	return nil
}
