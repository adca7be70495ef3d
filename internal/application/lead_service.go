package application

import (
	"context"
	"html"
	"strings"

	"vibestyle/internal/domain"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// LeadApplicationService は、リード獲得フォームの検証と外部送信を担当するアプリケーションサービスです
type LeadApplicationService struct {
	sink     LeadSink
	notifier LeadNotifier
	policy   *bluemonday.Policy
	logger   *zap.Logger
}

// NewLeadApplicationService は新しいLeadApplicationServiceインスタンスを作成します。notifierはnilでも構いません。
func NewLeadApplicationService(sink LeadSink, notifier LeadNotifier, logger *zap.Logger) *LeadApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadApplicationService{
		sink:     sink,
		notifier: notifier,
		policy:   bluemonday.StrictPolicy(),
		logger:   logger,
	}
}

// Prepare は、入力値からマークアップを取り除き、必須項目を検証します
func (s *LeadApplicationService) Prepare(raw domain.LeadData) (domain.LeadData, error) {
	lead := domain.LeadData{
		FullName:      s.clean(raw.FullName),
		ContactPhone:  s.clean(raw.ContactPhone),
		BusinessEmail: s.clean(raw.BusinessEmail),
		BusinessName:  s.clean(raw.BusinessName),
		EmployeeSize:  domain.EmployeeSize(strings.TrimSpace(string(raw.EmployeeSize))),
	}
	if err := lead.Validate(); err != nil {
		return domain.LeadData{}, err
	}
	return lead, nil
}

// Submit は、リード情報を送信先に渡します。
// trueは送信できたことだけを意味し、受信・処理されたことは保証しません。
func (s *LeadApplicationService) Submit(ctx context.Context, lead domain.LeadData) bool {
	s.logger.Info("リード情報を送信中", zap.String("business", lead.BusinessName))

	if err := s.sink.Submit(ctx, lead); err != nil {
		s.logger.Warn("リード情報の送信に失敗しました", zap.String("business", lead.BusinessName), zap.Error(err))
		return false
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyLead(ctx, lead); err != nil {
			s.logger.Warn("リード通知の送信に失敗しました", zap.Error(err))
		}
	}
	return true
}

// clean は、HTMLタグを取り除いた文字列を返します
func (s *LeadApplicationService) clean(value string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(value)))
}
