package main

import (
	"fmt"
	"strings"

	"vibestyle/configs"
	"vibestyle/internal/application"
	"vibestyle/internal/domain"
	"vibestyle/internal/infrastructure/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var historySession string

// historyCmd は、保存された生成履歴を管理します
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or clear persisted transformation history",
	Long: `Inspect or clear the transformation history stored in HISTORY_DB_PATH.

Available subcommands:
  list  - List sessions, or the entries of one session with --session
  clear - Erase the history of one session (--session is required)`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions or the entries of a session",
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Erase the history of a session",
	RunE:  runHistoryClear,
}

// openHistory は、設定に従って履歴の保存先を開きます
func openHistory(cmd *cobra.Command) (*storage.SQLiteHistoryRepository, error) {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗: %w", err)
	}
	return storage.OpenSQLite(cmd.Context(), cfg.Storage.HistoryDBPath)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	repo, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer repo.Close()

	out := cmd.OutOrStdout()
	if historySession == "" {
		keys, err := repo.Keys(cmd.Context(), application.HistoryKey(""))
		if err != nil {
			return err
		}
		for _, key := range keys {
			fmt.Fprintln(out, strings.TrimPrefix(strings.TrimPrefix(key, application.HistoryKey("")), ":"))
		}
		return nil
	}

	history := application.NewHistoryService(repo, logger)
	log := history.Load(cmd.Context(), application.HistoryKey(historySession))
	for i, entry := range log.Entries() {
		fmt.Fprintf(out, "%2d  %s  %-18s  %s • %s\n", i+1, entry.ID, entry.Technique,
			displayLabel(entry.ColorLabel), displayLabel(entry.StyleLabel))
	}
	if log.IsEmpty() {
		fmt.Fprintln(out, "履歴はありません")
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	if historySession == "" {
		return fmt.Errorf("--session を指定してください")
	}

	repo, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer repo.Close()

	key := application.HistoryKey(historySession)
	if err := application.NewHistoryService(repo, logger).Clear(cmd.Context(), key); err != nil {
		return fmt.Errorf("履歴の削除に失敗: %w", err)
	}
	logger.Info("履歴を削除しました", zap.String("key", key))
	return nil
}

func displayLabel(label string) string {
	if domain.IsUnchangedLabel(label) {
		return "-"
	}
	return label
}
