package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/fringe-events/internal/calendar"
	"github.com/pfrederiksen/fringe-events/internal/config"
	"github.com/pfrederiksen/fringe-events/internal/filter"
	"github.com/pfrederiksen/fringe-events/internal/logger"
	"github.com/pfrederiksen/fringe-events/internal/scraper"
	"github.com/pfrederiksen/fringe-events/internal/show"
	"github.com/pfrederiksen/fringe-events/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// options holds the parsed command-line flags
type options struct {
	db          string
	envFile     string
	baseURL     string
	concurrency int
	dryRun      bool
	migrate     bool
	format      string
	sort        string
	list        bool
	verbose     bool
	logLevel    string
	logFormat   string
	icsPath     string

	// --list filters
	tags     []string
	venues   []int
	ratings  []string
	titles   []string
	dates    string
	maxPrice float64
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{})
}

func newRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fringe-scraper",
		Short: "Scrape the Fringe festival ticketing site into a database",
		Long: `A CLI tool that scrapes every show, venue, content rating and showtime from the
Fringe festival ticketing site and replaces the stored dataset with the result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, opts)
		},
	}

	// Define flags
	cmd.Flags().StringVar(&opts.db, "db", "", "Database connection string (default $"+config.EnvConnectionString+")")
	cmd.Flags().StringVar(&opts.envFile, "env-file", "", "Load environment variables from this file (default .env if present)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", scraper.BaseURL, "Ticketing site base URL")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", scraper.DefaultConcurrency, "Maximum concurrent page requests")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Scrape and reconcile without writing to the database")
	cmd.Flags().BoolVar(&opts.migrate, "migrate", false, "Create or update the database schema before the run")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&opts.sort, "sort", string(SortByTitle), "Sort order for --list: title, date or venue")
	cmd.Flags().BoolVar(&opts.list, "list", false, "Print the scraped shows after the summary")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging and print run metrics")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", string(logger.FormatConsole), "Log format: console or json")
	cmd.Flags().StringVar(&opts.icsPath, "ics", "", "Write every scraped performance to this iCalendar file")

	cmd.Flags().StringSliceVar(&opts.tags, "tag", nil, "With --list, only shows whose tag contains this text (repeatable)")
	cmd.Flags().IntSliceVar(&opts.venues, "venue", nil, "With --list, only shows at this venue number (repeatable)")
	cmd.Flags().StringSliceVar(&opts.ratings, "rating", nil, "With --list, only shows with this content rating code (repeatable)")
	cmd.Flags().StringSliceVar(&opts.titles, "title", nil, "With --list, only shows whose title contains this text (repeatable)")
	cmd.Flags().StringVar(&opts.dates, "dates", "", "With --list, only shows opening in this range (e.g. 'Aug 14-18')")
	cmd.Flags().Float64Var(&opts.maxPrice, "max-price", 0, "With --list, only shows costing at most this much including fees")

	return cmd
}

// resolveConfig layers flags over environment variables over the env file
func resolveConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	if err := config.LoadEnvFile(opts.envFile); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.ConnectionString = opts.db
	}
	if flags.Changed("concurrency") || cfg.Concurrency == 0 {
		cfg.Concurrency = opts.concurrency
	}
	if flags.Changed("base-url") || cfg.BaseURL == "" {
		cfg.BaseURL = opts.baseURL
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newRunLogger builds the run logger from --verbose, --log-level and --log-format
func newRunLogger(cmd *cobra.Command, opts *options, runID string) (*logger.Logger, error) {
	level, err := logger.ParseLevel(opts.logLevel)
	if err != nil {
		return nil, err
	}
	if opts.verbose {
		level = logger.LevelDebug
	}

	format := logger.Format(opts.logFormat)
	if format != logger.FormatConsole && format != logger.FormatJSON {
		return nil, fmt.Errorf("invalid log format: %s (must be 'console' or 'json')", opts.logFormat)
	}

	return logger.New(level, cmd.ErrOrStderr(), format).With(logger.Fields{"run_id": runID}), nil
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, opts *options) error {
	format, err := ParseOutputFormat(opts.format)
	if err != nil {
		return err
	}
	order, err := ParseSortOrder(opts.sort)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	log, err := newRunLogger(cmd, opts, runID)
	if err != nil {
		return err
	}
	prev := logger.Default()
	logger.SetDefault(log)
	defer func() {
		log.Sync()
		logger.SetDefault(prev)
	}()

	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	conn, err := cfg.Connection()
	if err != nil {
		return err
	}
	listFilter, err := buildFilter(opts, festivalYear(cfg))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sc := scraper.New(scraper.Options{
		BaseURL:     cfg.BaseURL,
		Concurrency: cfg.Concurrency,
		WindowStart: cfg.WindowStart,
		WindowEnd:   cfg.WindowEnd,
	})

	logger.Info("Starting run", logger.Fields{
		"database":    cfg.Redacted(),
		"dialect":     string(conn.Dialect),
		"concurrency": sc.Concurrency(),
		"dry_run":     opts.dryRun,
	})
	pipeline := &Pipeline{Scraper: sc, DryRun: opts.dryRun}

	if !opts.dryRun || opts.migrate {
		store, err := storage.Open(ctx, conn)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer store.Close()
		logger.Debug("Opened database", logger.Fields{"dialect": string(store.Dialect())})

		if opts.migrate {
			if err := store.Migrate(ctx); err != nil {
				return err
			}
		}
		pipeline.Store = store
	}

	logger.ResetMetrics()
	summary := &RunSummary{
		RunID:     runID,
		StartedAt: time.Now().UTC(),
		DryRun:    opts.dryRun,
	}

	snap, runErr := pipeline.Run(ctx, summary)

	summary.FinishedAt = time.Now().UTC()
	summary.Metrics = logger.GetMetricsSnapshot()
	if runErr != nil {
		summary.Error = runErr.Error()
		logger.Error("Run failed", nil, runErr)
	} else {
		logger.Info("Run complete", logger.Fields{
			"shows":      summary.Shows,
			"show_times": summary.ShowTimes,
		})
	}

	out := cmd.OutOrStdout()
	if err := WriteOutput(out, summary, format, opts.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if runErr != nil {
		return runErr
	}

	if opts.icsPath != "" && snap != nil {
		if err := writeCalendar(opts.icsPath, snap, sc.DetailURL); err != nil {
			return err
		}
		logger.Info("Wrote calendar", logger.Fields{"path": opts.icsPath, "performances": len(snap.ShowTimes)})
	}

	if opts.list && snap != nil {
		if !listFilter.IsEmpty() {
			logger.Debug("Filtering show list", logger.Fields{"filter": listFilter.String()})
		}
		if err := WriteShowList(out, listFilter.Apply(snap.Shows), order, format); err != nil {
			return fmt.Errorf("writing show list: %w", err)
		}
	}
	return nil
}

// buildFilter turns the --list filter flags into a Filter
func buildFilter(opts *options, year int) (*filter.Filter, error) {
	f := filter.NewFilter()
	f.Tags = opts.tags
	f.Venues = opts.venues
	f.Ratings = opts.ratings
	f.Titles = opts.titles
	if opts.maxPrice < 0 {
		return nil, fmt.Errorf("invalid max price: %.2f", opts.maxPrice)
	}
	f.MaxPrice = opts.maxPrice

	if opts.dates != "" {
		from, to, err := filter.ParseDateRange(opts.dates, year)
		if err != nil {
			return nil, fmt.Errorf("invalid --dates: %w", err)
		}
		f.DateFrom, f.DateTo = from, to
	}
	return f, nil
}

// festivalYear is the year of the configured schedule window
func festivalYear(cfg config.Config) int {
	start := cfg.WindowStart
	if start == "" {
		start = scraper.DefaultWindowStart
	}
	if t, err := time.Parse("2006-01-02T15:04:05", start); err == nil {
		return t.Year()
	}
	return time.Now().Year()
}

// writeCalendar exports the run's performances as an iCalendar file
func writeCalendar(path string, snap *show.Snapshot, detailURL func(int) string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating calendar file: %w", err)
	}
	if err := calendar.WriteICS(f, snap.Shows, snap.ShowTimes, detailURL); err != nil {
		f.Close()
		return fmt.Errorf("writing calendar: %w", err)
	}
	return f.Close()
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
