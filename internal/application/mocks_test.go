package application

import (
	"context"
	"errors"
	"sync"

	"vibestyle/internal/domain"
)

// MockGateway は、テスト用のモックゲートウェイです
type MockGateway struct {
	mu            sync.Mutex
	result        domain.Image
	err           error
	analysis      string
	release       chan struct{}
	started       chan struct{}
	transformCall int
	analyzeCall   int
	order         []string
}

func (m *MockGateway) Transform(ctx context.Context, image domain.Image, sel domain.Selection) (domain.Image, error) {
	m.mu.Lock()
	m.transformCall++
	m.order = append(m.order, "transform")
	started, release := m.started, m.release
	m.mu.Unlock()

	if started != nil {
		close(started)
	}
	if release != nil {
		<-release
	}
	if m.err != nil {
		return domain.Image{}, m.err
	}
	return m.result, nil
}

func (m *MockGateway) Analyze(ctx context.Context, sel domain.Selection) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyzeCall++
	m.order = append(m.order, "analyze")
	return m.analysis
}

func (m *MockGateway) calls() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transformCall, m.analyzeCall
}

// MockHistoryRepository は、テスト用のモック履歴リポジトリです
type MockHistoryRepository struct {
	mu      sync.Mutex
	data    map[string]domain.HistoryLog
	loadErr error
	saveErr error
	saves   int
}

func newMockHistoryRepository() *MockHistoryRepository {
	return &MockHistoryRepository{data: make(map[string]domain.HistoryLog)}
}

func (m *MockHistoryRepository) Load(ctx context.Context, key string) (domain.HistoryLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return domain.HistoryLog{}, m.loadErr
	}
	return m.data[key], nil
}

func (m *MockHistoryRepository) Save(ctx context.Context, key string, log domain.HistoryLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = log
	return nil
}

func (m *MockHistoryRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockHistoryRepository) saved(key string) (domain.HistoryLog, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], m.saves
}

// MockLeadSink は、テスト用のモック送信先です
type MockLeadSink struct {
	received []domain.LeadData
	err      error
}

func (m *MockLeadSink) Submit(ctx context.Context, lead domain.LeadData) error {
	m.received = append(m.received, lead)
	return m.err
}

// MockLeadNotifier は、テスト用のモック通知先です
type MockLeadNotifier struct {
	notified int
	err      error
}

func (m *MockLeadNotifier) NotifyLead(ctx context.Context, lead domain.LeadData) error {
	m.notified++
	return m.err
}

var errRemote = errors.New("503 overloaded")
