package lead

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vibestyle/internal/domain"

	"go.uber.org/zap"
)

// FormSink は、リード情報をフォーム形式でスプレッドシート連携エンドポイントにPOSTするLeadSinkの実装です
type FormSink struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewFormSink は新しいFormSinkインスタンスを作成します
func NewFormSink(endpoint string, timeout time.Duration, logger *zap.Logger) *FormSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormSink{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Submit は、5つのフィールドをapplication/x-www-form-urlencodedで送信します。
// 応答の内容やステータスコードは解釈しません。
func (s *FormSink) Submit(ctx context.Context, lead domain.LeadData) error {
	form := url.Values{}
	for _, field := range lead.Fields() {
		form.Add(field[0], field[1])
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("リード送信リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("リード送信に失敗: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	s.logger.Debug("リード送信先が応答しました", zap.Int("status", resp.StatusCode))
	return nil
}
