package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vibestyle/internal/domain"

	"github.com/bwmarrin/discordgo"
)

func TestParseWebhookURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantID    string
		wantToken string
		wantErr   bool
	}{
		{"正しい形式", "https://discord.com/api/webhooks/123/abc-DEF", "123", "abc-DEF", false},
		{"末尾スラッシュ", "https://discord.com/api/webhooks/123/abc/", "123", "abc", false},
		{"トークンなし", "https://discord.com/api/webhooks/123", "", "", true},
		{"ウェブフック以外", "https://example.com/hooks/1/2", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, token, err := ParseWebhookURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("エラーの有無が期待と異なります: %v", err)
			}
			if id != tt.wantID || token != tt.wantToken {
				t.Errorf("期待される値: %s/%s, 実際: %s/%s", tt.wantID, tt.wantToken, id, token)
			}
		})
	}
}

func TestBuildLeadEmbed(t *testing.T) {
	embed := buildLeadEmbed(domain.LeadData{
		FullName:      "Mika",
		ContactPhone:  "090",
		BusinessEmail: "mika@salon.example",
		BusinessName:  "Salon Lumière",
		EmployeeSize:  domain.EmployeeSizeMedium,
	})

	if embed.Description != "Salon Lumière" {
		t.Errorf("期待されるDescription: Salon Lumière, 実際: %s", embed.Description)
	}
	if len(embed.Fields) != 4 {
		t.Fatalf("期待されるフィールド数: 4, 実際: %d", len(embed.Fields))
	}
	if embed.Fields[3].Value != "11-25 STYLISTS" {
		t.Errorf("期待されるスタイリスト数: 11-25 STYLISTS, 実際: %s", embed.Fields[3].Value)
	}
}

func TestWebhookLeadNotifier_NotifyLead(t *testing.T) {
	var received discordgo.WebhookParams
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("リクエストのデコードに失敗: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	original := discordgo.EndpointWebhookToken
	discordgo.EndpointWebhookToken = func(webhookID, token string) string {
		return server.URL + "/webhooks/" + webhookID + "/" + token
	}
	defer func() { discordgo.EndpointWebhookToken = original }()

	notifier, err := NewWebhookLeadNotifier("https://discord.com/api/webhooks/42/secret", nil)
	if err != nil {
		t.Fatalf("通知先の作成に失敗: %v", err)
	}

	err = notifier.NotifyLead(context.Background(), domain.LeadData{BusinessName: "Salon", EmployeeSize: domain.EmployeeSizeSolo})
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if path != "/webhooks/42/secret" {
		t.Errorf("期待されるパス: /webhooks/42/secret, 実際: %s", path)
	}
	if len(received.Embeds) != 1 || received.Embeds[0].Description != "Salon" {
		t.Errorf("埋め込みが送信されていません: %+v", received)
	}
}

func TestNewWebhookLeadNotifier_InvalidURL(t *testing.T) {
	if _, err := NewWebhookLeadNotifier("not a webhook", nil); err == nil {
		t.Error("エラーが期待されましたが、発生しませんでした")
	}
}
