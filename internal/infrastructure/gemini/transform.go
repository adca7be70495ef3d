package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vibestyle/internal/domain"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Transform は、選択状態に従ってポートレートの髪を変換した画像を返します。
// カラーとスタイルのどちらも有効でない場合は入力画像をそのまま返します。
func (g *Gateway) Transform(ctx context.Context, image domain.Image, sel domain.Selection) (domain.Image, error) {
	directive := g.prompts.TransformDirective(sel)
	if directive == "" {
		return image, nil
	}
	if image.IsRemote() {
		return domain.Image{}, fmt.Errorf("%w: %w: 外部URLの画像は変換できません", domain.ErrTransformFailed, domain.ErrInvalidImage)
	}

	compressed, err := CompressImage(image.Data, g.config.MaxImageSize, g.config.JPEGQuality)
	if err != nil {
		return domain.Image{}, fmt.Errorf("%w: %w", domain.ErrTransformFailed, err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(compressed, "image/jpeg"),
			genai.NewPartFromText(directive),
		}, genai.RoleUser),
	}

	g.logger.Info("Gemini APIに画像変換をリクエスト中",
		zap.String("model", g.config.ImageModelName),
		zap.Int("bytes", len(compressed)),
		zap.String("color", sel.ColorLabel()),
		zap.String("style", sel.StyleLabel()))

	result, err := g.retryWithBackoff(ctx, func() (domain.Image, error) {
		resp, err := g.models.GenerateContent(ctx, g.config.ImageModelName, contents, g.createImageConfig())
		if err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return domain.Image{}, fmt.Errorf("Gemini APIへのリクエストがタイムアウトしました: %w", err)
			}
			return domain.Image{}, fmt.Errorf("Gemini APIからの応答取得に失敗: %w", err)
		}
		return processImageResponse(resp)
	})
	if err != nil {
		return domain.Image{}, fmt.Errorf("%w: %w", domain.ErrTransformFailed, err)
	}

	g.logger.Info("Gemini APIから変換画像を取得", zap.Int("bytes", len(result.Data)), zap.String("mime", result.MIMEType))
	return result, nil
}

// processImageResponse は、画像変換レスポンスから最初のインライン画像を取り出します。
// MIMEタイプが空の場合はJPEGとして扱います。
func processImageResponse(resp *genai.GenerateContentResponse) (domain.Image, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return domain.Image{}, fmt.Errorf("Gemini APIから有効な画像生成応答が得られませんでした")
	}

	candidate := resp.Candidates[0]

	switch candidate.FinishReason {
	case genai.FinishReasonSafety:
		return domain.Image{}, fmt.Errorf("Gemini APIの安全フィルターによって画像生成がブロックされました。詳細: %s", formatSafetyRatings(candidate.SafetyRatings))
	case genai.FinishReasonRecitation:
		return domain.Image{}, fmt.Errorf("Gemini APIが著作権保護された内容を検出しました")
	}

	if candidate.Content == nil {
		return domain.Image{}, fmt.Errorf("%w: Contentが含まれていません。FinishReason: %s", domain.ErrNoVisualOutput, candidate.FinishReason)
	}

	for _, part := range candidate.Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			mimeType := part.InlineData.MIMEType
			if mimeType == "" {
				mimeType = "image/jpeg"
			}
			return domain.NewImage(part.InlineData.Data, mimeType), nil
		}
	}
	return domain.Image{}, fmt.Errorf("%w: FinishReason: %s", domain.ErrNoVisualOutput, candidate.FinishReason)
}

// retryWithBackoff は、指数バックオフでリトライを実行します。MaxRetriesが0の場合は1回だけ実行します。
func (g *Gateway) retryWithBackoff(ctx context.Context, operation func() (domain.Image, error)) (domain.Image, error) {
	var lastErr error

	for attempt := 0; attempt <= g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			// 指数バックオフ: 1秒、2秒、4秒...
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			g.logger.Info("画像変換をリトライします", zap.Int("attempt", attempt), zap.Int("max", g.config.MaxRetries), zap.Duration("backoff", backoff))

			select {
			case <-ctx.Done():
				return domain.Image{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, err := operation()
		if err == nil {
			return result, nil
		}

		lastErr = err
		if !shouldRetry(err) {
			return domain.Image{}, err
		}
	}

	if g.config.MaxRetries == 0 {
		return domain.Image{}, lastErr
	}
	return domain.Image{}, fmt.Errorf("最大リトライ回数 (%d) に達しました: %w", g.config.MaxRetries, lastErr)
}

// shouldRetry は、一時的なエラーかどうかを判定します
func shouldRetry(err error) bool {
	if errors.Is(err, domain.ErrNoVisualOutput) || errors.Is(err, context.Canceled) {
		return false
	}

	message := strings.ToLower(err.Error())
	for _, fatal := range []string{"api key", "unauthorized", "permission", "安全フィルター", "著作権"} {
		if strings.Contains(message, fatal) {
			return false
		}
	}
	return true
}
