package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vibestyle/configs"
	"vibestyle/internal/application"
	"vibestyle/internal/domain"
	"vibestyle/internal/infrastructure/catalog"
	"vibestyle/internal/infrastructure/discord"
	"vibestyle/internal/infrastructure/gemini"
	"vibestyle/internal/infrastructure/lead"
	"vibestyle/internal/infrastructure/storage"
	"vibestyle/internal/presentation/web"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// serveCmd は、Webサーバーを起動します
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the workbench web server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger.Info("VibeStyleを起動中...")

	// 設定を読み込み
	cfg, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("設定の読み込みに失敗: %w", err)
	}
	if err := cfg.ValidateCredentials(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 履歴の保存先を作成
	repo, err := storage.OpenSQLite(ctx, cfg.Storage.HistoryDBPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	// プリセットカタログを読み込み
	initial := catalog.Default()
	if cfg.Workbench.CatalogPath != "" {
		if initial, err = catalog.LoadFile(cfg.Workbench.CatalogPath); err != nil {
			return fmt.Errorf("カタログの読み込みに失敗: %w", err)
		}
	}
	holder := catalog.NewHolder(initial)

	// Gemini APIゲートウェイを作成
	gateway, err := gemini.NewGateway(ctx, &cfg.Gemini, logger)
	if err != nil {
		return fmt.Errorf("Geminiゲートウェイの作成に失敗: %w", err)
	}

	registry := application.NewWorkbenchRegistry(application.WorkbenchDeps{
		Gateway: gateway,
		History: application.NewHistoryService(repo, logger),
		Catalog: holder,
		Logger:  logger,
	}, application.WorkbenchOptions{
		FailureResetDelay:    cfg.Workbench.FailureResetDelay,
		ConfirmationDuration: cfg.Workbench.ConfirmationDuration,
		RequestTimeout:       cfg.Server.RequestTimeout,
	})

	// リード送信先と通知先を作成
	var notifier application.LeadNotifier
	if cfg.Lead.DiscordWebhookURL != "" {
		webhook, err := discord.NewWebhookLeadNotifier(cfg.Lead.DiscordWebhookURL, logger)
		if err != nil {
			return fmt.Errorf("Discord通知の設定に失敗: %w", err)
		}
		notifier = webhook
	}
	leads := application.NewLeadApplicationService(
		lead.NewFormSink(cfg.Lead.EndpointURL, cfg.Lead.Timeout, logger),
		notifier,
		logger,
	)

	handler := web.NewHandler(registry, leads, web.Options{
		MaxUploadBytes:    cfg.Server.MaxUploadBytes,
		FailureResetDelay: cfg.Workbench.FailureResetDelay,
		SecureCookies:     cfg.Server.SecureCookies,
	}, logger)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 30*time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTPサーバーを起動しました", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTPサーバーの起動に失敗: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("終了シグナルを受信しました。サーバーを停止中...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.Workbench.CatalogPath != "" && cfg.Workbench.WatchCatalog {
		watcher := catalog.NewWatcher(cfg.Workbench.CatalogPath, holder, logger)
		g.Go(func() error { return watcher.Run(gctx) })
	}
	if cfg.Workbench.SessionIdleTTL > 0 && cfg.Workbench.SweepInterval > 0 {
		g.Go(func() error {
			return registry.RunSweeper(gctx, cfg.Workbench.SweepInterval, cfg.Workbench.SessionIdleTTL)
		})
	}

	logger.Info("ワークベンチの準備が完了しました",
		zap.Int("palettes", len(initial.Palettes)),
		zap.Int("hairstyles", len(initial.Hairstyles)),
		zap.Int("history_capacity", domain.HistoryCapacity),
		zap.Bool("lead_notifier", notifier != nil))

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("VibeStyleが正常に停止しました。")
	return nil
}
