package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"vibestyle/internal/domain"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WorkbenchOptions は、ワークベンチの時間に関する設定です
type WorkbenchOptions struct {
	FailureResetDelay    time.Duration
	ConfirmationDuration time.Duration
	RequestTimeout       time.Duration
}

// DefaultWorkbenchOptions は、デフォルトのワークベンチ設定を返します
func DefaultWorkbenchOptions() WorkbenchOptions {
	return WorkbenchOptions{
		FailureResetDelay:    30 * time.Second,
		ConfirmationDuration: domain.ConfirmationDuration,
		RequestTimeout:       90 * time.Second,
	}
}

// WorkbenchDeps は、ワークベンチが利用する協調オブジェクトです
type WorkbenchDeps struct {
	Gateway ImageTransformGateway
	History *HistoryService
	Catalog CatalogSource
	Clock   clock.Clock
	Logger  *zap.Logger
	NewID   func() string
}

// WorkbenchView は、描画用に切り出したワークベンチの状態です
type WorkbenchView struct {
	Selection   domain.Selection
	Catalog     domain.Catalog
	BeforeImage string
	AfterImage  string
	AfterLabel  string
	Status      domain.GenerationStatus
	Notice      string
	Analysis    string
	Confirmed   bool
	CanGenerate bool
	CanDownload bool
	History     []domain.TransformationResult
}

// Loading は、生成リクエストが実行中かどうかを返します
func (v WorkbenchView) Loading() bool {
	return v.Status == domain.StatusRequesting
}

// Workbench は、選択状態を保持し、画像変換・履歴記録・比較表示を制御するアプリケーションサービスです
type Workbench struct {
	key     string
	deps    WorkbenchDeps
	options WorkbenchOptions

	mu           sync.Mutex
	selection    domain.Selection
	baseImage    domain.Image
	resultImage  domain.Image
	analysis     string
	status       domain.GenerationStatus
	notice       string
	confirmed    bool
	history      domain.HistoryLog
	resetTimer   *clock.Timer
	confirmTimer *clock.Timer
	lastSeen     time.Time
}

// NewWorkbench は新しいWorkbenchインスタンスを作成し、永続化された履歴を一度だけ読み込みます
func NewWorkbench(ctx context.Context, key string, deps WorkbenchDeps, options WorkbenchOptions) *Workbench {
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	if deps.Catalog == nil {
		deps.Catalog = StaticCatalog(domain.DefaultCatalog())
	}

	placeholder := domain.ImageFromURL(domain.PlaceholderBefore)
	w := &Workbench{
		key:         key,
		deps:        deps,
		options:     options,
		selection:   domain.NewSelection(deps.Catalog.Catalog()),
		baseImage:   placeholder,
		resultImage: placeholder,
		status:      domain.StatusIdle,
		lastSeen:    deps.Clock.Now(),
	}
	if deps.History != nil {
		w.history = deps.History.Load(ctx, key)
	}
	return w
}

// Key は、このワークベンチの履歴キーを返します
func (w *Workbench) Key() string {
	return w.key
}

// Snapshot は、現在の状態を描画用に返します
func (w *Workbench) Snapshot() WorkbenchView {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	return WorkbenchView{
		Selection:   w.selection,
		Catalog:     w.deps.Catalog.Catalog(),
		BeforeImage: w.baseImage.Ref(),
		AfterImage:  w.resultImage.Ref(),
		AfterLabel:  w.selection.ResultLabel(),
		Status:      w.status,
		Notice:      w.notice,
		Analysis:    w.analysis,
		Confirmed:   w.confirmed,
		CanGenerate: w.status.CanStart() && w.selection.HasAnyDimension() && w.hasUpload(),
		CanDownload: w.canDownload(),
		History:     w.history.Entries(),
	}
}

// Status は、現在の生成状態を返します
func (w *Workbench) Status() domain.GenerationStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// History は、現在の履歴を返します
func (w *Workbench) History() domain.HistoryLog {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.history
}

// ToggleColor は、カラーの適用を切り替えます
func (w *Workbench) ToggleColor() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	w.selection.IncludeColor = !w.selection.IncludeColor
}

// ToggleStyle は、スタイルの適用を切り替えます
func (w *Workbench) ToggleStyle() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	w.selection.IncludeStyle = !w.selection.IncludeStyle
}

// SelectColor は、表示名でカラープリセットを選択します。カラーがオフの場合は何もしません。
func (w *Workbench) SelectColor(name string) error {
	palette, ok := w.deps.Catalog.Catalog().PaletteByName(name)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownPreset, name)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	if w.selection.IncludeColor {
		w.selection.Color = palette
	}
	return nil
}

// SelectStyle は、IDでヘアスタイルプリセットを選択します。スタイルがオフの場合は何もしません。
func (w *Workbench) SelectStyle(id string) error {
	style, ok := w.deps.Catalog.Catalog().HairstyleByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownPreset, id)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	if w.selection.IncludeStyle {
		w.selection.Style = style
	}
	return nil
}

// Upload は、アップロードされた画像を変換前・変換後の両方に設定します
func (w *Workbench) Upload(image domain.Image) error {
	if image.IsEmpty() {
		return domain.ErrInvalidImage
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	if !w.status.CanStart() {
		return domain.ErrGenerationInFlight
	}
	w.baseImage = image
	w.resultImage = image
	return nil
}

// Generate は、現在の選択状態で画像変換を1回実行します。
// 変換が成功した場合のみ分析テキストを取得し、履歴に1件記録します。
func (w *Workbench) Generate(ctx context.Context) (domain.TransformationResult, error) {
	w.mu.Lock()
	w.touch()
	if !w.status.CanTransitionTo(domain.StatusRequesting) {
		w.mu.Unlock()
		return domain.TransformationResult{}, domain.ErrGenerationInFlight
	}
	if !w.selection.HasAnyDimension() {
		w.mu.Unlock()
		return domain.TransformationResult{}, domain.ErrNothingToApply
	}
	if !w.hasUpload() {
		w.mu.Unlock()
		return domain.TransformationResult{}, domain.ErrInvalidImage
	}

	sel := w.selection
	base := w.baseImage
	w.stopTimer(&w.resetTimer)
	w.transitionLocked(domain.StatusRequesting)
	w.analysis = ""
	w.notice = ""
	w.mu.Unlock()

	if w.options.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.options.RequestTimeout)
		defer cancel()
	}

	w.deps.Logger.Info("画像変換を開始します",
		zap.String("key", w.key),
		zap.String("color", sel.ColorLabel()),
		zap.String("style", sel.StyleLabel()))

	transformed, err := w.deps.Gateway.Transform(ctx, base, sel)
	if err != nil {
		if !errors.Is(err, domain.ErrTransformFailed) {
			err = fmt.Errorf("%w: %w", domain.ErrTransformFailed, err)
		}
		w.fail(err)
		return domain.TransformationResult{}, err
	}

	w.mu.Lock()
	w.resultImage = transformed
	w.mu.Unlock()

	analysis := w.deps.Gateway.Analyze(ctx, sel)
	entry := domain.NewTransformationResult(w.deps.NewID(), base, transformed, sel, w.deps.Clock.Now())

	w.mu.Lock()
	w.analysis = analysis
	w.history = w.recordLocked(entry)
	snapshot := w.history
	w.transitionLocked(domain.StatusSucceeded)
	w.confirm()
	w.mu.Unlock()

	if w.deps.History != nil {
		w.deps.History.Persist(context.WithoutCancel(ctx), w.key, snapshot)
	}

	w.deps.Logger.Info("画像変換が完了しました", zap.String("key", w.key), zap.String("id", entry.ID))
	return entry, nil
}

// Replay は、履歴エントリの画像と選択状態をワークベンチに復元します
func (w *Workbench) Replay(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	if !w.status.CanStart() {
		return domain.ErrGenerationInFlight
	}

	entry, ok := w.history.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrHistoryEntryNotFound, id)
	}
	return w.replayLocked(entry)
}

// Download は、ダウンロード可能な変換結果の画像を返します
func (w *Workbench) Download() (domain.Image, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.canDownload() {
		return domain.Image{}, domain.ErrNothingToDownload
	}
	return w.resultImage, nil
}

// ClearHistory は、このワークベンチの履歴を削除します
func (w *Workbench) ClearHistory(ctx context.Context) error {
	if w.deps.History != nil {
		if err := w.deps.History.Clear(ctx, w.key); err != nil {
			return fmt.Errorf("履歴の削除に失敗: %w", err)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.history = domain.HistoryLog{}
	return nil
}

// Close は、保留中のタイマーを停止します
func (w *Workbench) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopTimer(&w.resetTimer)
	w.stopTimer(&w.confirmTimer)
}

// LastSeen は、最後に操作された時刻を返します
func (w *Workbench) LastSeen() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// fail は、failed に遷移し、一定時間後に idle に戻すタイマーを設定します
func (w *Workbench) fail(cause error) {
	w.deps.Logger.Warn("画像変換に失敗しました", zap.String("key", w.key), zap.Error(cause))

	w.mu.Lock()
	defer w.mu.Unlock()
	w.transitionLocked(domain.StatusFailed)
	w.notice = domain.FailureNotice
	w.stopTimer(&w.resetTimer)
	w.resetTimer = w.deps.Clock.AfterFunc(w.options.FailureResetDelay, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.status == domain.StatusFailed && w.transitionLocked(domain.StatusIdle) {
			w.notice = ""
		}
	})
}

// confirm は、確認表示をオンにして一定時間後に消すタイマーを設定します。ロックを保持した状態で呼び出します。
func (w *Workbench) confirm() {
	w.confirmed = true
	w.stopTimer(&w.confirmTimer)
	w.confirmTimer = w.deps.Clock.AfterFunc(w.options.ConfirmationDuration, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.confirmed = false
	})
}

// transitionLocked は、許可された遷移の場合のみ状態を更新します。ロックを保持した状態で呼び出します。
func (w *Workbench) transitionLocked(next domain.GenerationStatus) bool {
	if !w.status.CanTransitionTo(next) {
		w.deps.Logger.Warn("許可されていない状態遷移です",
			zap.String("key", w.key),
			zap.String("from", w.status.String()),
			zap.String("to", next.String()))
		return false
	}
	w.status = next
	return true
}

func (w *Workbench) recordLocked(entry domain.TransformationResult) domain.HistoryLog {
	if w.deps.History != nil {
		return w.deps.History.Record(entry, w.history)
	}
	return w.history.Record(entry)
}

func (w *Workbench) replayLocked(entry domain.TransformationResult) error {
	before, err := domain.ParseImageRef(entry.BeforeImage)
	if err != nil {
		return fmt.Errorf("履歴の変換前画像を復元できません: %w", err)
	}
	after, err := domain.ParseImageRef(entry.AfterImage)
	if err != nil {
		return fmt.Errorf("履歴の変換後画像を復元できません: %w", err)
	}

	w.baseImage = before
	w.resultImage = after
	w.selection = w.selection.Replay(entry, w.deps.Catalog.Catalog())
	return nil
}

// hasUpload は、変換前画像がサンプルではなくバイト列を持つかを判定します
func (w *Workbench) hasUpload() bool {
	return !w.baseImage.IsEmpty() && !w.baseImage.IsRemote()
}

func (w *Workbench) canDownload() bool {
	if w.resultImage.IsEmpty() {
		return false
	}
	return !(w.resultImage.IsRemote() && w.resultImage.URL == domain.PlaceholderBefore)
}

func (w *Workbench) stopTimer(t **clock.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}

func (w *Workbench) touch() {
	w.lastSeen = w.deps.Clock.Now()
}
