package config

import "time"

// GeminiConfig は、Gemini API関連の設定を定義します
type GeminiConfig struct {
	APIKey         string
	ImageModelName string // 画像変換用モデル名
	TextModelName  string // 分析テキスト用モデル名
	MaxTokens      int32  // 分析テキストの最大トークン数
	Temperature    float32
	TopP           float32
	MaxRetries     int // 画像変換のリトライ回数（0で無効）
	MaxImageSize   int // 送信前に縮小する画像の最大辺（px）
	JPEGQuality    int // 送信前に再エンコードするJPEG品質
}

// DefaultGeminiConfig は、デフォルトのGemini設定を返します
func DefaultGeminiConfig() *GeminiConfig {
	return &GeminiConfig{
		ImageModelName: "gemini-2.5-flash-image",
		TextModelName:  "gemini-3-flash-preview",
		MaxTokens:      200,
		Temperature:    0.7,
		TopP:           0.9,
		MaxRetries:     0,
		MaxImageSize:   1024,
		JPEGQuality:    80,
	}
}

// ServerConfig は、HTTPサーバー関連の設定を定義します
type ServerConfig struct {
	Addr            string
	RequestTimeout  time.Duration // 1回の生成リクエストに許容する時間
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
	SecureCookies   bool // HTTPS配信時にセッションクッキーへSecure属性を付ける
}

// WorkbenchConfig は、ワークベンチの状態遷移に関する設定を定義します
type WorkbenchConfig struct {
	FailureResetDelay    time.Duration // failed から idle に戻るまでの時間
	ConfirmationDuration time.Duration // 成功表示が消えるまでの時間
	CatalogPath          string        // プリセットカタログのYAMLファイル（空なら組み込み）
	WatchCatalog         bool
	SessionIdleTTL       time.Duration // 操作のないワークベンチを破棄するまでの時間（0で無効）
	SweepInterval        time.Duration
}

// StorageConfig は、履歴の永続化に関する設定を定義します
type StorageConfig struct {
	HistoryDBPath string
}

// LeadConfig は、リード送信先に関する設定を定義します
type LeadConfig struct {
	EndpointURL       string
	DiscordWebhookURL string // 空の場合は通知しない
	Timeout           time.Duration
}
