package discord

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"vibestyle/internal/domain"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// leadEmbedColor は、リード通知の埋め込みの色です
const leadEmbedColor = 0xB87333

// WebhookLeadNotifier は、Discordのウェブフックでサロンチームにリードを通知するLeadNotifierの実装です
type WebhookLeadNotifier struct {
	session   *discordgo.Session
	webhookID string
	token     string
	logger    *zap.Logger
}

// NewWebhookLeadNotifier は、ウェブフックURLから新しいWebhookLeadNotifierインスタンスを作成します
func NewWebhookLeadNotifier(webhookURL string, logger *zap.Logger) (*WebhookLeadNotifier, error) {
	webhookID, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}

	// ウェブフックの実行にBotトークンは不要
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("Discordセッションの作成に失敗: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookLeadNotifier{
		session:   session,
		webhookID: webhookID,
		token:     token,
		logger:    logger,
	}, nil
}

// ParseWebhookURL は、https://discord.com/api/webhooks/{id}/{token} 形式のURLからIDとトークンを取り出します
func ParseWebhookURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("ウェブフックURLの解析に失敗: %w", err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("ウェブフックURLの形式が正しくありません: %s", u.Redacted())
}

// NotifyLead は、リード情報を埋め込みメッセージとして送信します
func (n *WebhookLeadNotifier) NotifyLead(ctx context.Context, lead domain.LeadData) error {
	params := &discordgo.WebhookParams{
		Username: "VibeStyle Leads",
		Embeds:   []*discordgo.MessageEmbed{buildLeadEmbed(lead)},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{},
		},
	}

	if _, err := n.session.WebhookExecute(n.webhookID, n.token, false, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("Discordへのリード通知に失敗: %w", err)
	}

	n.logger.Info("Discordにリードを通知しました", zap.String("business", lead.BusinessName))
	return nil
}

// buildLeadEmbed は、リード情報の埋め込みを作成します
func buildLeadEmbed(lead domain.LeadData) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "新しいパートナー申し込み",
		Description: lead.BusinessName,
		Color:       leadEmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "氏名", Value: lead.FullName, Inline: true},
			{Name: "電話番号", Value: lead.ContactPhone, Inline: true},
			{Name: "メール", Value: lead.BusinessEmail},
			{Name: "スタイリスト数", Value: lead.EmployeeSize.DisplayName(), Inline: true},
		},
	}
}
