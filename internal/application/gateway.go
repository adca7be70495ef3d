package application

import (
	"context"

	"vibestyle/internal/domain"
)

// ImageTransformGateway は、外部の画像生成サービスとテキスト生成サービスを包むゲートウェイのインターフェースです
type ImageTransformGateway interface {
	// Transform は、選択状態に従って画像を変換します。
	// カラーとスタイルのどちらも有効でない場合は入力画像をそのまま返します。
	Transform(ctx context.Context, image domain.Image, sel domain.Selection) (domain.Image, error)

	// Analyze は、選択したルックの短い説明文を返します。失敗時はフォールバック文言を返します。
	Analyze(ctx context.Context, sel domain.Selection) string
}

// LeadSink は、リード情報の外部送信先のインターフェースです
type LeadSink interface {
	// Submit は、リード情報を送信します。エラーはネットワークレベルの失敗のみを表します。
	Submit(ctx context.Context, lead domain.LeadData) error
}

// LeadNotifier は、送信済みのリードをサロンチームに通知するインターフェースです
type LeadNotifier interface {
	NotifyLead(ctx context.Context, lead domain.LeadData) error
}

// CatalogSource は、現在のプリセットカタログを提供するインターフェースです
type CatalogSource interface {
	Catalog() domain.Catalog
}

// StaticCatalog は、固定のカタログを返すCatalogSourceです
type StaticCatalog domain.Catalog

// Catalog は、固定のカタログを返します
func (c StaticCatalog) Catalog() domain.Catalog {
	return domain.Catalog(c)
}
