package cli

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"quizdesk/internal/app"
	"quizdesk/internal/config"
	"quizdesk/internal/infra/flatfile"
	"quizdesk/internal/lib/colorlog"
)

var (
	dataDir    string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	_ = godotenv.Load()

	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}
	envData := os.Getenv("DATA_DIR")

	cmd := &cobra.Command{
		Use:   "quizdesk",
		Short: "Quiz application with flat-file table storage",
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&dataDir, "data", envData, "data directory holding the table files")
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newLeaderboardCmd())
	cmd.AddCommand(newCleanupCmd())
	return cmd
}

// env bundles the constructed services. The store is built once here and
// passed down; no component reaches the table files any other way.
type env struct {
	cfg     config.Config
	log     *slog.Logger
	store   *flatfile.Store
	auth    *app.AuthService
	catalog *app.CatalogService
	boards  *app.LeaderboardService
}

func bootstrap() (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	dir := dataDir
	if dir == "" {
		dir = cfg.Data.Dir
	}
	if dir == "" {
		dir = "data"
	}

	log := slog.New(colorlog.NewHandler(os.Stderr, slog.LevelInfo))

	store, err := flatfile.Open(dir, log)
	if err != nil {
		return nil, err
	}

	cache := app.NewQuestionCache(store, config.Duration(cfg.Cache.TTL, 5*time.Minute))
	return &env{
		cfg:     cfg,
		log:     log,
		store:   store,
		auth:    app.NewAuthService(store, log),
		catalog: app.NewCatalogService(store, cache, log),
		boards:  app.NewLeaderboardService(store),
	}, nil
}
