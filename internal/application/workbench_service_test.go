package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"vibestyle/internal/domain"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	portrait  = domain.NewImage([]byte{0xff, 0xd8, 0x01}, "image/jpeg")
	rendering = domain.NewImage([]byte{0xff, 0xd8, 0x02}, "image/jpeg")
)

func newTestWorkbench(t *testing.T, gateway *MockGateway, repo *MockHistoryRepository) (*Workbench, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	ids := 0
	deps := WorkbenchDeps{
		Gateway: gateway,
		History: NewHistoryService(repo, nil),
		Clock:   mock,
		NewID: func() string {
			ids++
			return fmt.Sprintf("id-%d", ids)
		},
	}
	w := NewWorkbench(context.Background(), "vibestyle_history:test", deps, DefaultWorkbenchOptions())
	t.Cleanup(w.Close)
	require.NoError(t, w.Upload(portrait))
	return w, mock
}

func TestWorkbench_Generate_Success(t *testing.T) {
	gateway := &MockGateway{result: rendering, analysis: "Luxury look."}
	repo := newMockHistoryRepository()
	w, _ := newTestWorkbench(t, gateway, repo)

	entry, err := w.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "id-1", entry.ID)
	assert.Equal(t, portrait.Ref(), entry.BeforeImage)
	assert.Equal(t, rendering.Ref(), entry.AfterImage)
	assert.Equal(t, []string{"transform", "analyze"}, gateway.order)

	view := w.Snapshot()
	assert.Equal(t, domain.StatusSucceeded, view.Status)
	assert.True(t, view.Confirmed)
	assert.Equal(t, "Luxury look.", view.Analysis)
	assert.Equal(t, rendering.Ref(), view.AfterImage)
	assert.Len(t, view.History, 1)

	saved, saves := repo.saved(w.Key())
	assert.Equal(t, 1, saves)
	assert.Equal(t, 1, saved.Len())
}

func TestWorkbench_Generate_FailureResetsToIdle(t *testing.T) {
	gateway := &MockGateway{err: fmt.Errorf("%w: %v", domain.ErrTransformFailed, errRemote)}
	repo := newMockHistoryRepository()
	w, mock := newTestWorkbench(t, gateway, repo)

	_, err := w.Generate(context.Background())
	require.ErrorIs(t, err, domain.ErrTransformFailed)

	view := w.Snapshot()
	assert.Equal(t, domain.StatusFailed, view.Status)
	assert.Equal(t, domain.FailureNotice, view.Notice)
	assert.Empty(t, view.History)

	_, analyzed := gateway.calls()
	assert.Zero(t, analyzed, "変換に失敗した場合は分析を呼び出さないこと")
	_, saves := repo.saved(w.Key())
	assert.Zero(t, saves)

	mock.Add(29 * time.Second)
	assert.Equal(t, domain.StatusFailed, w.Status())

	mock.Add(time.Second)
	require.Eventually(t, func() bool {
		return w.Status() == domain.StatusIdle
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, w.Snapshot().Notice)
}

func TestWorkbench_Generate_RejectsWhileInFlight(t *testing.T) {
	gateway := &MockGateway{
		result:  rendering,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	w, _ := newTestWorkbench(t, gateway, newMockHistoryRepository())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = w.Generate(context.Background())
	}()

	<-gateway.started
	assert.True(t, w.Snapshot().Loading())

	_, err := w.Generate(context.Background())
	assert.ErrorIs(t, err, domain.ErrGenerationInFlight)

	close(gateway.release)
	wg.Wait()

	transforms, _ := gateway.calls()
	assert.Equal(t, 1, transforms)
	assert.Equal(t, 1, w.History().Len())
}

func TestWorkbench_RejectsUploadAndReplayWhileInFlight(t *testing.T) {
	other := domain.NewImage([]byte{0xff, 0xd8, 0x03}, "image/jpeg")
	repo := newMockHistoryRepository()
	repo.data["vibestyle_history:test"] = domain.HistoryLog{}.Record(domain.TransformationResult{
		ID:          "old",
		BeforeImage: other.Ref(),
		AfterImage:  other.Ref(),
		ColorLabel:  "Golden Honey",
		StyleLabel:  domain.Unchanged,
	})
	gateway := &MockGateway{
		result:  rendering,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	w, _ := newTestWorkbench(t, gateway, repo)

	var (
		wg    sync.WaitGroup
		entry domain.TransformationResult
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		entry, _ = w.Generate(context.Background())
	}()
	<-gateway.started

	assert.ErrorIs(t, w.Upload(other), domain.ErrGenerationInFlight)
	assert.ErrorIs(t, w.Replay("old"), domain.ErrGenerationInFlight)

	close(gateway.release)
	wg.Wait()

	view := w.Snapshot()
	assert.Equal(t, portrait.Ref(), view.BeforeImage, "変換中の入れ替えは反映されないこと")
	assert.Equal(t, rendering.Ref(), view.AfterImage)
	assert.Equal(t, view.BeforeImage, entry.BeforeImage)
	assert.True(t, view.Selection.IncludeStyle)

	require.NoError(t, w.Upload(other))
	assert.Equal(t, other.Ref(), w.Snapshot().BeforeImage)
}

func TestWorkbench_Generate_RetryAfterFailure(t *testing.T) {
	gateway := &MockGateway{err: errRemote}
	w, _ := newTestWorkbench(t, gateway, newMockHistoryRepository())

	_, err := w.Generate(context.Background())
	require.ErrorIs(t, err, domain.ErrTransformFailed)
	require.Equal(t, domain.StatusFailed, w.Status())
	assert.True(t, w.Snapshot().CanGenerate, "失敗状態からは再生成できること")

	gateway.mu.Lock()
	gateway.err = nil
	gateway.result = rendering
	gateway.mu.Unlock()

	_, err = w.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSucceeded, w.Status())
	assert.Empty(t, w.Snapshot().Notice)
}

func TestWorkbench_Generate_NothingToApply(t *testing.T) {
	gateway := &MockGateway{result: rendering}
	w, _ := newTestWorkbench(t, gateway, newMockHistoryRepository())

	w.ToggleColor()
	w.ToggleStyle()
	assert.False(t, w.Snapshot().CanGenerate)
	assert.Equal(t, "NO CHANGE", w.Snapshot().AfterLabel)

	_, err := w.Generate(context.Background())
	assert.ErrorIs(t, err, domain.ErrNothingToApply)
	assert.Equal(t, domain.StatusIdle, w.Status())
}

func TestWorkbench_Generate_ColorOnlyMarksStyleUnchanged(t *testing.T) {
	gateway := &MockGateway{result: rendering}
	w, _ := newTestWorkbench(t, gateway, newMockHistoryRepository())

	require.NoError(t, w.SelectColor("Electric Purple"))
	w.ToggleStyle()

	entry, err := w.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Electric Purple", entry.ColorLabel)
	assert.Equal(t, domain.Unchanged, entry.StyleLabel)
	assert.Equal(t, domain.ColorRefinement, entry.Technique)
}

func TestWorkbench_ConfirmationClearsAfterDuration(t *testing.T) {
	gateway := &MockGateway{result: rendering}
	w, mock := newTestWorkbench(t, gateway, newMockHistoryRepository())

	_, err := w.Generate(context.Background())
	require.NoError(t, err)
	require.True(t, w.Snapshot().Confirmed)

	mock.Add(domain.ConfirmationDuration)
	require.Eventually(t, func() bool {
		return !w.Snapshot().Confirmed
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, domain.StatusSucceeded, w.Status())
}

func TestWorkbench_Generate_PersistFailureDoesNotFail(t *testing.T) {
	gateway := &MockGateway{result: rendering}
	repo := newMockHistoryRepository()
	repo.saveErr = errors.New("disk full")
	w, _ := newTestWorkbench(t, gateway, repo)

	_, err := w.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSucceeded, w.Status())
	assert.Equal(t, 1, w.History().Len())
}

func TestWorkbench_LoadsPersistedHistoryOnce(t *testing.T) {
	repo := newMockHistoryRepository()
	repo.data["vibestyle_history:test"] = domain.HistoryLog{}.Record(domain.TransformationResult{
		ID: "old", ColorLabel: "Golden Honey", StyleLabel: "Wolf Cut",
	})

	w, _ := newTestWorkbench(t, &MockGateway{}, repo)
	require.Equal(t, 1, w.History().Len())

	delete(repo.data, "vibestyle_history:test")
	assert.Equal(t, 1, w.History().Len(), "読み込みは作成時の1回だけ")
}

func TestWorkbench_Replay_RestoresImagesAndSelection(t *testing.T) {
	repo := newMockHistoryRepository()
	repo.data["vibestyle_history:test"] = domain.HistoryLog{}.Record(domain.TransformationResult{
		ID:          "e1",
		BeforeImage: portrait.Ref(),
		AfterImage:  rendering.Ref(),
		Technique:   domain.ColorRefinement,
		ColorLabel:  "Golden Honey",
		StyleLabel:  domain.Unchanged,
	})
	w, _ := newTestWorkbench(t, &MockGateway{}, repo)

	require.NoError(t, w.Replay("e1"))

	view := w.Snapshot()
	assert.Equal(t, "Golden Honey", view.Selection.Color.Name)
	assert.True(t, view.Selection.IncludeColor)
	assert.False(t, view.Selection.IncludeStyle)
	assert.Equal(t, portrait.Ref(), view.BeforeImage)
	assert.Equal(t, rendering.Ref(), view.AfterImage)

	assert.ErrorIs(t, w.Replay("missing"), domain.ErrHistoryEntryNotFound)
}

func TestWorkbench_Replay_CatalogDriftKeepsSelection(t *testing.T) {
	repo := newMockHistoryRepository()
	repo.data["vibestyle_history:test"] = domain.HistoryLog{}.Record(domain.TransformationResult{
		ID:         "e1",
		ColorLabel: "Retired Teal",
		StyleLabel: "Butterfly Cut",
	})
	w, _ := newTestWorkbench(t, &MockGateway{}, repo)
	before := w.Snapshot().Selection

	require.NoError(t, w.Replay("e1"))

	sel := w.Snapshot().Selection
	assert.False(t, sel.IncludeColor)
	assert.Equal(t, before.Color, sel.Color)
	assert.True(t, sel.IncludeStyle)
	assert.Equal(t, "butterfly", sel.Style.ID)
}

func TestWorkbench_SelectPresets(t *testing.T) {
	w, _ := newTestWorkbench(t, &MockGateway{}, newMockHistoryRepository())

	require.NoError(t, w.SelectStyle("pixie"))
	assert.Equal(t, "Tapered Pixie", w.Snapshot().Selection.Style.Name)

	assert.ErrorIs(t, w.SelectColor("Neon Lime"), domain.ErrUnknownPreset)
	assert.ErrorIs(t, w.SelectStyle("mullet"), domain.ErrUnknownPreset)

	w.ToggleStyle()
	require.NoError(t, w.SelectStyle("bob"))
	assert.Equal(t, "pixie", w.Snapshot().Selection.Style.ID, "オフのときは選択を変更しないこと")
}

func TestWorkbench_Download(t *testing.T) {
	mock := clock.NewMock()
	w := NewWorkbench(context.Background(), "k", WorkbenchDeps{Gateway: &MockGateway{result: rendering}, Clock: mock}, DefaultWorkbenchOptions())
	t.Cleanup(w.Close)

	_, err := w.Download()
	assert.ErrorIs(t, err, domain.ErrNothingToDownload)

	require.NoError(t, w.Upload(portrait))
	_, err = w.Generate(context.Background())
	require.NoError(t, err)

	image, err := w.Download()
	require.NoError(t, err)
	assert.Equal(t, rendering.Data, image.Data)
}

func TestWorkbench_ClearHistory(t *testing.T) {
	repo := newMockHistoryRepository()
	w, _ := newTestWorkbench(t, &MockGateway{result: rendering}, repo)

	_, err := w.Generate(context.Background())
	require.NoError(t, err)
	require.NoError(t, w.ClearHistory(context.Background()))

	assert.True(t, w.History().IsEmpty())
	saved, _ := repo.saved(w.Key())
	assert.True(t, saved.IsEmpty())
}

func TestWorkbench_Generate_RequiresUpload(t *testing.T) {
	gateway := &MockGateway{result: rendering}
	w := NewWorkbench(context.Background(), "k", WorkbenchDeps{Gateway: gateway, Clock: clock.NewMock()}, DefaultWorkbenchOptions())
	t.Cleanup(w.Close)

	assert.False(t, w.Snapshot().CanGenerate)
	_, err := w.Generate(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
	assert.Equal(t, domain.StatusIdle, w.Status())

	transforms, _ := gateway.calls()
	assert.Zero(t, transforms)
}

func TestWorkbench_Generate_WrapsGatewayErrors(t *testing.T) {
	gateway := &MockGateway{err: context.DeadlineExceeded}
	w, _ := newTestWorkbench(t, gateway, newMockHistoryRepository())

	_, err := w.Generate(context.Background())

	assert.ErrorIs(t, err, domain.ErrTransformFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, domain.StatusFailed, w.Status())
}
