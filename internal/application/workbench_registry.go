package application

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// WorkbenchRegistry は、ブラウザセッションごとのWorkbenchを保持します
type WorkbenchRegistry struct {
	deps    WorkbenchDeps
	options WorkbenchOptions

	mu          sync.Mutex
	workbenches map[string]*Workbench
}

// NewWorkbenchRegistry は新しいWorkbenchRegistryインスタンスを作成します
func NewWorkbenchRegistry(deps WorkbenchDeps, options WorkbenchOptions) *WorkbenchRegistry {
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &WorkbenchRegistry{
		deps:        deps,
		options:     options,
		workbenches: make(map[string]*Workbench),
	}
}

// Get は、セッションIDに対応するWorkbenchを返します。存在しない場合は作成します。
func (r *WorkbenchRegistry) Get(ctx context.Context, sessionID string) *Workbench {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.workbenches[sessionID]; ok {
		return w
	}

	w := NewWorkbench(ctx, HistoryKey(sessionID), r.deps, r.options)
	r.workbenches[sessionID] = w
	r.deps.Logger.Debug("ワークベンチを作成しました", zap.String("session", sessionID))
	return w
}

// Len は、保持しているWorkbenchの数を返します
func (r *WorkbenchRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workbenches)
}

// Sweep は、idleTTLより長く操作されていないWorkbenchを破棄し、破棄した数を返します。
// 履歴は永続化済みのため、再訪時に読み込み直されます。
func (r *WorkbenchRegistry) Sweep(idleTTL time.Duration) int {
	cutoff := r.deps.Clock.Now().Add(-idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, w := range r.workbenches {
		if w.Status().CanStart() && w.LastSeen().Before(cutoff) {
			w.Close()
			delete(r.workbenches, id)
			removed++
		}
	}
	if removed > 0 {
		r.deps.Logger.Info("未使用のワークベンチを破棄しました", zap.Int("removed", removed))
	}
	return removed
}

// RunSweeper は、ctxが終了するまで定期的にSweepを実行します
func (r *WorkbenchRegistry) RunSweeper(ctx context.Context, interval, idleTTL time.Duration) error {
	ticker := r.deps.Clock.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Sweep(idleTTL)
		}
	}
}
