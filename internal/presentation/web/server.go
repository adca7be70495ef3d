package web

import (
	"net/http"
	"time"

	"vibestyle/internal/application"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Options は、Webハンドラの設定です
type Options struct {
	MaxUploadBytes    int64
	FailureResetDelay time.Duration
	SecureCookies     bool
}

// Handler は、ワークベンチとリード獲得フォームのHTTPハンドラです
type Handler struct {
	registry *application.WorkbenchRegistry
	leads    *application.LeadApplicationService
	renderer *renderer
	options  Options
	logger   *zap.Logger
	now      func() time.Time
}

// NewHandler は新しいHandlerインスタンスを作成します
func NewHandler(
	registry *application.WorkbenchRegistry,
	leads *application.LeadApplicationService,
	options Options,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if options.MaxUploadBytes <= 0 {
		options.MaxUploadBytes = 10 << 20
	}
	return &Handler{
		registry: registry,
		leads:    leads,
		renderer: newRenderer(),
		options:  options,
		logger:   logger,
		now:      time.Now,
	}
}

// Routes は、すべてのエンドポイントを登録したルーターを返します
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// 比較スライダーの計算はセッションを必要としない
	r.Get("/workbench/slider", h.handleSlider)

	r.Group(func(r chi.Router) {
		r.Use(h.session)

		r.Get("/", h.handleIndex)

		r.Route("/workbench", func(r chi.Router) {
			r.Post("/upload", h.handleUpload)
			r.Post("/toggle/{dimension}", h.handleToggle)
			r.Post("/color", h.handleSelectColor)
			r.Post("/style", h.handleSelectStyle)
			r.Post("/generate", h.handleGenerate)
			r.Get("/status", h.handleStatus)
			r.Get("/download", h.handleDownload)
		})

		r.Route("/history", func(r chi.Router) {
			r.Post("/{id}/replay", h.handleReplay)
			r.Post("/clear", h.handleClearHistory)
		})

		r.Post("/leads", h.handleLead)
	})

	return r
}

// requestLogger は、リクエストごとのアクセスログを出力します
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		h.logger.Debug("HTTPリクエスト",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
