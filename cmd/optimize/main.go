// Command optimize runs the out-of-band maintenance jobs: the statistics
// refresh batch job (directly against the catalog database) and the cache
// warm-up (via the admin endpoint of a running server, since the result
// cache lives in the server process).
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"wellcareplus/backend/internal/cache"
	"wellcareplus/backend/internal/config"
	"wellcareplus/backend/internal/logging"
	"wellcareplus/backend/internal/repository"
	"wellcareplus/backend/internal/services"
)

func main() {
	logger := logging.NewLogger()

	var serverURL string

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Recompute provider statistics from reviews and appointments",
		Long: "Recomputes each provider's average rating, review count, and patient count " +
			"in batches with bulk writes. Server-side cached results repair themselves " +
			"within their TTL window.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatsRefresh(cmd.Context(), logger)
		},
	}

	warmupCmd := &cobra.Command{
		Use:   "warmup",
		Short: "Pre-populate the high-traffic cache entries of a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postAdmin(cmd.Context(), serverURL+"/api/v1/admin/warmup")
		},
	}
	warmupCmd.Flags().StringVar(&serverURL, "server-url", "http://localhost:8080", "base URL of the running server")

	allCmd := &cobra.Command{
		Use:   "all",
		Short: "Refresh statistics, then warm up the server caches",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runStatsRefresh(cmd.Context(), logger); err != nil {
				return err
			}
			return postAdmin(cmd.Context(), serverURL+"/api/v1/admin/warmup")
		},
	}
	allCmd.Flags().StringVar(&serverURL, "server-url", "http://localhost:8080", "base URL of the running server")

	root := &cobra.Command{
		Use:   "optimize",
		Short: "Maintenance jobs for the provider catalog",
	}
	root.AddCommand(statsCmd, warmupCmd, allCmd)

	if err := root.Execute(); err != nil {
		logger.Error("optimize failed: %v", err)
		os.Exit(1)
	}
}

func runStatsRefresh(ctx context.Context, logger *logging.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}
	defer pool.Close()

	store := repository.NewPostgresProviderStore(pool)
	search := services.NewSearchService(store, cache.NewMemoryStore(), logger)
	stats := services.NewStatsService(store, search, logger)
	return stats.RefreshStatistics(ctx)
}

func postAdmin(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}
	return nil
}
