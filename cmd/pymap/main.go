package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pymap/internal/config"
	"pymap/internal/crawler"
	"pymap/internal/render"
	"pymap/internal/report"
	"pymap/internal/storage"
)

var (
	rootCmd = &cobra.Command{
		Use:           "pymap",
		Short:         "Directory crawler and Python source mapper",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.WarnLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).With().Timestamp().Logger()
		},
	}
	configPath   string
	dbPath       string
	verbose      bool
	historyLimit int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the crawl history database (SQLite), overrides config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of crawls to list")

	rootCmd.AddCommand(crawlCmd)
	rootCmd.AddCommand(historyCmd)
}

// loadConfig loads the YAML config and applies CLI overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.DB.Path = dbPath
	}
	return cfg, nil
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [path]",
	Short: "Crawl a directory tree and map its Python sources",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		root := "."
		if len(args) > 0 {
			root = args[0]
		}
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return err
		}

		c := crawler.New(cfg)
		res, err := c.Crawl(absRoot, func(line render.Line) {
			fmt.Println(line.Text)
		})
		if err != nil {
			return err
		}

		emitter := report.New(cfg.Output.LogPath, cfg.Output.MapPath)
		status := emitter.Emit(res.Transcript, res.MapLines)
		if !status.OK() {
			fmt.Println("⚠️ ", status.Message())
		}

		saveHistory(cmd.Context(), cfg.DB.Path, res)

		if res.Status == crawler.StatusFailed {
			return fmt.Errorf("%s", res.Message)
		}
		fmt.Printf("✅ Artifacts written: %s, %s\n", status.LogPath, status.MapPath)
		return nil
	},
}

// saveHistory records the finished crawl; history is best-effort and never
// fails the command.
func saveHistory(ctx context.Context, path string, res *crawler.Result) {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := storage.NewSQLiteStore(path)
	if err != nil {
		log.Warn().Err(err).Str("db", path).Msg("cmd: open history store")
		return
	}
	defer store.Close()

	if _, err := store.SaveCrawl(ctx, res); err != nil {
		log.Warn().Err(err).Msg("cmd: save crawl history")
	}
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded crawl runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := storage.NewSQLiteStore(cfg.DB.Path)
		if err != nil {
			return fmt.Errorf("failed to open history store: %w", err)
		}
		defer store.Close()

		records, err := store.ListCrawls(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list crawls: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No crawls recorded yet.")
			return nil
		}

		for _, rec := range records {
			fmt.Printf("#%d  %s  %s  %s  (dirs: %d, files: %d, analyzed: %d, failures: %d)\n",
				rec.ID, rec.StartedAt.Local().Format("2006-01-02 15:04:05"),
				rec.Status, rec.Root, rec.Dirs, rec.Files, rec.Analyzed, rec.Failures)
			if rec.Message != "" {
				fmt.Printf("    %s\n", rec.Message)
			}
		}
		return nil
	},
}
