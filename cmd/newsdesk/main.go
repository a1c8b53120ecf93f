package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/kwestin/newsdesk/internal/cache"
	"github.com/kwestin/newsdesk/internal/config"
	"github.com/kwestin/newsdesk/internal/format"
	"github.com/kwestin/newsdesk/internal/pipeline"
	"github.com/kwestin/newsdesk/internal/server"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "newsdesk",
	Short:   "Aggregated, deduplicated news digests",
	Long:    "newsdesk pulls headlines from RSS feeds, Hacker News, and Reddit, merges duplicate coverage into single stories, and ranks them by cross-source signal.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("newsdesk", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/newsdesk/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure sources and output format.")
		return nil
	},
}

// --- fetch command ---

var (
	fetchFormat  string
	fetchDeep    bool
	fetchNoDedup bool
	fetchDiff    bool
	fetchLimit   int
	fetchTop     int
	fetchKeyword string
	fetchNoCache bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch headlines, merge duplicate coverage, and print the digest",
	RunE: func(cmd *cobra.Command, args []string) error {
		var c *cache.Cache
		if cfg.Cache.Enabled && !fetchNoCache {
			var err error
			c, err = openCache()
			if err != nil {
				return err
			}
			defer c.Close()
		}

		outputFormat := fetchFormat
		if outputFormat == "" {
			outputFormat = cfg.Output.Format
		}
		limit := fetchLimit
		if fetchTop > 0 {
			limit = fetchTop
		}
		if limit == 0 {
			limit = cfg.Output.Limit
		}

		pipe := pipeline.New(cfg, c)
		out, err := pipe.Run(context.Background(), pipeline.RunOptions{
			Deep:    fetchDeep,
			NoDedup: fetchNoDedup,
			Diff:    fetchDiff,
			Limit:   limit,
			Keyword: fetchKeyword,
		})
		if err != nil {
			return err
		}

		rendered, err := format.Format(out.Result, outputFormat)
		if err != nil {
			return err
		}
		fmt.Println(rendered)

		if out.Diff != nil {
			printDiff(out)
		}
		return nil
	},
}

func printDiff(out *pipeline.RunOutput) {
	d := out.Diff
	fmt.Println()
	fmt.Printf("Changes since last run: %d new, %d dropped, %d moved\n",
		d.Summary.NewCount, d.Summary.DroppedCount, d.Summary.ChangedCount)

	for _, e := range d.New {
		fmt.Printf("  + %s\n", e.Title)
	}
	for _, e := range d.Dropped {
		fmt.Printf("  - %s\n", e.Title)
	}
	for _, rc := range d.RankChanges {
		arrow := "up"
		if rc.Change < 0 {
			arrow = "down"
		}
		fmt.Printf("  ~ %s (%s %d -> %d)\n", rc.Title, arrow, rc.OldRank, rc.NewRank)
	}
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchFormat, "format", "f", "", "Output format: json, markdown, or slack")
	fetchCmd.Flags().BoolVar(&fetchDeep, "deep", false, "Fetch full article text for content-based dedup")
	fetchCmd.Flags().BoolVar(&fetchNoDedup, "no-dedup", false, "Skip duplicate merging")
	fetchCmd.Flags().BoolVar(&fetchDiff, "diff", false, "Show changes since the last run")
	fetchCmd.Flags().IntVarP(&fetchLimit, "limit", "n", 0, "Maximum stories to output")
	fetchCmd.Flags().IntVar(&fetchTop, "top", 0, "Show only the top N stories (overrides --limit)")
	fetchCmd.Flags().StringVarP(&fetchKeyword, "keyword", "k", "", "Only keep items matching this keyword")
	fetchCmd.Flags().BoolVar(&fetchNoCache, "no-cache", false, "Bypass the source cache")
}

// --- cache command ---

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the source cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		defer c.Close()

		stats, err := c.GetStats(time.Now().UTC())
		if err != nil {
			return err
		}

		fmt.Printf("Cache: %s\n\n", stats.Path)
		fmt.Printf("  Source batches: %d (%d expired)\n", stats.Entries, stats.ExpiredEntries)
		fmt.Printf("  Saved runs: %d\n", stats.LastRunEntries)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached batches and saved runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		defer c.Close()

		if err := c.Clear(); err != nil {
			return err
		}
		fmt.Println("Cache cleared.")
		return nil
	},
}

var cacheExpireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Remove only expired cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		defer c.Close()

		n, err := c.ClearExpired(time.Now().UTC())
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d expired entries.\n", n)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheExpireCmd)
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local digest web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		defer c.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(c, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on")
}

func openCache() (*cache.Cache, error) {
	ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
	return cache.Open(cfg.CachePath(), ttl)
}
