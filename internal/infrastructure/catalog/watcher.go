package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher は、カタログファイルの変更を監視し、Holderのカタログを再読み込みします。
// 解析に失敗した場合は直前のカタログを維持します。
type Watcher struct {
	path     string
	holder   *Holder
	logger   *zap.Logger
	debounce time.Duration
	onReload func()
}

// NewWatcher は新しいWatcherインスタンスを作成します
func NewWatcher(path string, holder *Holder, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		path:     filepath.Clean(path),
		holder:   holder,
		logger:   logger,
		debounce: 200 * time.Millisecond,
	}
}

// Run は、ctxが終了するまでファイルを監視します
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("ファイル監視の開始に失敗: %w", err)
	}
	defer fw.Close()

	// エディタはリネームで保存することがあるため、ディレクトリを監視する
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("カタログディレクトリの監視に失敗: %w", err)
	}
	w.logger.Info("カタログファイルの監視を開始しました", zap.String("path", w.path))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.After(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("カタログファイルの監視でエラーが発生しました", zap.Error(err))

		case <-pending:
			pending = nil
			w.reload()
		}
	}
}

// reload は、ファイルを読み直してHolderを更新します
func (w *Watcher) reload() {
	c, err := LoadFile(w.path)
	if err != nil {
		w.logger.Warn("カタログの再読み込みに失敗したため直前のカタログを使用します", zap.String("path", w.path), zap.Error(err))
		return
	}

	w.holder.Replace(c)
	w.logger.Info("カタログを再読み込みしました",
		zap.Int("palettes", len(c.Palettes)),
		zap.Int("hairstyles", len(c.Hairstyles)))
	if w.onReload != nil {
		w.onReload()
	}
}
