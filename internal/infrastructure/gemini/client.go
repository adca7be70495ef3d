package gemini

import (
	"context"
	"fmt"
	"strings"

	"vibestyle/internal/domain"
	"vibestyle/internal/infrastructure/config"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// contentGenerator は、genai.Models のうちこのパッケージが利用するメソッドです
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gateway は、Gemini APIで画像変換と分析テキスト生成を行うクライアントです
type Gateway struct {
	models  contentGenerator
	config  *config.GeminiConfig
	prompts *domain.PromptGenerator
	logger  *zap.Logger
}

// NewGateway は新しいGatewayインスタンスを作成します
func NewGateway(ctx context.Context, geminiConfig *config.GeminiConfig, logger *zap.Logger) (*Gateway, error) {
	if geminiConfig == nil {
		geminiConfig = config.DefaultGeminiConfig()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini APIクライアントの作成に失敗: %w", err)
	}

	return newGateway(client.Models, geminiConfig, logger), nil
}

func newGateway(models contentGenerator, geminiConfig *config.GeminiConfig, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		models:  models,
		config:  geminiConfig,
		prompts: domain.NewPromptGenerator(),
		logger:  logger,
	}
}

// createTextConfig は、分析テキスト用の生成設定を作成します
func (g *Gateway) createTextConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		MaxOutputTokens: g.config.MaxTokens,
		Temperature:     &g.config.Temperature,
		TopP:            &g.config.TopP,
		SafetySettings:  createSafetySettings(),
	}
}

// createImageConfig は、画像変換用の生成設定を作成します
func (g *Gateway) createImageConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
		SafetySettings:     createSafetySettings(),
	}
}

// Analyze は、選択したルックの短い分析テキストを返します。
// 空の応答や通信エラーの場合はフォールバック文言を返します。
func (g *Gateway) Analyze(ctx context.Context, sel domain.Selection) string {
	prompt := g.prompts.AnalysisPrompt(sel)
	g.logger.Debug("分析テキストをリクエスト中", zap.String("model", g.config.TextModelName), zap.Int("chars", len(prompt)))

	resp, err := g.models.GenerateContent(ctx, g.config.TextModelName, genai.Text(prompt), g.createTextConfig())
	if err != nil {
		g.logger.Warn("分析テキストの取得に失敗しました", zap.Error(err))
		return domain.AnalysisFailedFallback
	}

	text, err := processTextResponse(resp)
	if err != nil {
		g.logger.Warn("分析テキストの応答が不正です", zap.Error(err))
		return domain.AnalysisFailedFallback
	}
	if text == "" {
		return domain.AnalysisEmptyFallback
	}
	return text
}

// processTextResponse は、テキスト生成レスポンスから本文を取り出します
func processTextResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("Gemini APIから有効な応答が得られませんでした")
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("Gemini APIの安全フィルターによって応答がブロックされました: %s", formatSafetyRatings(candidate.SafetyRatings))
	}
	if candidate.FinishReason == genai.FinishReasonRecitation {
		return "", fmt.Errorf("Gemini APIが著作権保護された内容を検出しました")
	}
	if candidate.Content == nil {
		return "", nil
	}

	var builder strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil && part.Text != "" {
			builder.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(builder.String()), nil
}
