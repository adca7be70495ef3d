package application

import (
	"context"

	"vibestyle/internal/domain"

	"go.uber.org/zap"
)

// historyKeyPrefix は、永続化する履歴のキーの接頭辞です
const historyKeyPrefix = "vibestyle_history"

// HistoryKey は、セッションIDから履歴の保存キーを返します
func HistoryKey(sessionID string) string {
	if sessionID == "" {
		return historyKeyPrefix
	}
	return historyKeyPrefix + ":" + sessionID
}

// HistoryService は、有界な生成履歴の読み込み・記録・永続化を担当するサービスです
type HistoryService struct {
	repo   domain.HistoryRepository
	logger *zap.Logger
}

// NewHistoryService は新しいHistoryServiceインスタンスを作成します
func NewHistoryService(repo domain.HistoryRepository, logger *zap.Logger) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{
		repo:   repo,
		logger: logger,
	}
}

// Load は、永続化された履歴を読み込みます。失敗した場合は空の履歴を返します。
func (s *HistoryService) Load(ctx context.Context, key string) domain.HistoryLog {
	log, err := s.repo.Load(ctx, key)
	if err != nil {
		s.logger.Warn("履歴の読み込みに失敗したため空の履歴で開始します",
			zap.String("key", key), zap.Error(err))
		return domain.HistoryLog{}
	}
	return log
}

// Record は、エントリを先頭に追加した新しい履歴を返します
func (s *HistoryService) Record(entry domain.TransformationResult, log domain.HistoryLog) domain.HistoryLog {
	return log.Record(entry)
}

// Persist は、容量で切り詰めた履歴を書き込みます。失敗はログに記録するだけで呼び出し元には返しません。
func (s *HistoryService) Persist(ctx context.Context, key string, log domain.HistoryLog) {
	if err := s.repo.Save(ctx, key, log); err != nil {
		s.logger.Warn("履歴の保存に失敗しました", zap.String("key", key), zap.Error(err))
		return
	}
	s.logger.Debug("履歴を保存しました", zap.String("key", key), zap.Int("entries", log.Len()))
}

// Clear は、指定されたキーの履歴を削除します
func (s *HistoryService) Clear(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}
