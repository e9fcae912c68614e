package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/work-tracker/internal/aggregate"
	"github.com/username/work-tracker/internal/config"
	"github.com/username/work-tracker/internal/contract"
	"github.com/username/work-tracker/internal/daemon"
	"github.com/username/work-tracker/internal/holiday"
	"github.com/username/work-tracker/internal/ledger"
	"github.com/username/work-tracker/internal/remote"
	"github.com/username/work-tracker/internal/session"
	"github.com/username/work-tracker/pkg/dateutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "work-tracker",
		Short: "Worktime session tracker",
		Long:  "Track worktime sessions in a shared ledger, reconcile across machines over SFTP, and report against contract obligations",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log file path
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Daemon.LogFile != "" {
				logger, err = initFileLogger(cfg.Daemon.LogFile, cfg.Daemon.LogLevel)
				if err != nil {
					initLogger() // Fallback to console
				}
			} else {
				initLogger() // Default console logger
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Config file path")

	rootCmd.AddCommand(trackCmd())
	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(plotCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func trackCmd() *cobra.Command {
	var occupation string

	cmd := &cobra.Command{
		Use:   "track",
		Short: "Run the tracking daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if occupation == "" {
				occupation = cfg.ActiveOccupation()
			} else if !cfg.HasOccupation(occupation) {
				return fmt.Errorf("unknown occupation '%s'", occupation)
			}

			tracker, err := buildTracker(cfg, occupation)
			if err != nil {
				return err
			}
			syncer := buildSyncer(cfg)

			d := daemon.NewDaemon(
				tracker,
				syncer,
				cfg.Tracking.GetTickInterval(),
				cfg.Tracking.GetPushEvery(),
				cfg.Daemon.SystemTray,
				cfg.Occupation.Occupations,
				logger,
			)
			return d.Start()
		},
	}

	cmd.Flags().StringVarP(&occupation, "occupation", "o", "", "Occupation to track (default from config)")

	return cmd
}

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the local ledger with the remote store once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			syncer := buildSyncer(cfg)
			if syncer == nil {
				return fmt.Errorf("remote.host is not configured")
			}

			tracker, err := buildTracker(cfg, cfg.ActiveOccupation())
			if err != nil {
				return err
			}

			if !syncer.Sync(tracker, time.Now()) {
				return fmt.Errorf("sync incomplete, see log for details")
			}

			fmt.Println("Ledger reconciled with remote")
			return nil
		},
	}
}

func reportCmd() *cobra.Command {
	var fromStr, toStr string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report worktime against contract obligations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			from, to, err := parseRange(fromStr, toStr)
			if err != nil {
				return err
			}

			records, contractCal, err := buildTotalView(cfg, to)
			if err != nil {
				return err
			}
			records = filterRecords(records, from, to)

			var worked time.Duration
			byOccupation := make(map[string]time.Duration)
			for _, r := range records {
				worked += r.Worktime
				byOccupation[r.Occupation] += r.Worktime
			}

			var obligation time.Duration
			for _, date := range contractCal.Dates() {
				if date.Before(from) || date.After(to) {
					continue
				}
				obligation += contractCal[date]
			}

			fmt.Printf("Worktime %s to %s\n",
				from.Format("2006-01-02"), to.Format("2006-01-02"))
			fmt.Println("=======================================")
			occupations := make([]string, 0, len(byOccupation))
			for occ := range byOccupation {
				occupations = append(occupations, occ)
			}
			sort.Strings(occupations)
			for _, occ := range occupations {
				fmt.Printf("  %-14s %8s\n", occ, dateutil.FormatHM(byOccupation[occ]))
			}
			fmt.Println("---------------------------------------")
			fmt.Printf("  %-14s %8s\n", "total", dateutil.FormatHM(worked))
			fmt.Printf("  %-14s %8s\n", "obligation", dateutil.FormatHM(obligation))

			balance := worked - obligation
			label := "surplus"
			if balance < 0 {
				label = "deficit"
				balance = -balance
			}
			fmt.Printf("  %-14s %8s\n", label, dateutil.FormatHM(balance))

			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "Start of the reporting range (YYYY-MM-DD, default 30 days ago)")
	cmd.Flags().StringVar(&toStr, "to", "", "End of the reporting range (YYYY-MM-DD, default today)")

	return cmd
}

func plotCmd() *cobra.Command {
	var fromStr, toStr, bucketStr string

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Print bucketed worktime per occupation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			from, to, err := parseRange(fromStr, toStr)
			if err != nil {
				return err
			}

			bucket := 24 * time.Hour
			if bucketStr != "" {
				bucket, err = time.ParseDuration(bucketStr)
				if err != nil {
					return fmt.Errorf("invalid bucket '%s': %w", bucketStr, err)
				}
			}

			records, _, err := buildTotalView(cfg, to)
			if err != nil {
				return err
			}
			records = filterRecords(records, from, to)

			plot := aggregate.PlotView(records, bucket)
			if len(plot.Buckets) == 0 {
				fmt.Println("No worktime recorded in range")
				return nil
			}

			names := make([]string, 0, len(plot.Series))
			for name := range plot.Series {
				if name != aggregate.TotalSeries {
					names = append(names, name)
				}
			}
			sort.Strings(names)
			names = append(names, aggregate.TotalSeries)

			fmt.Printf("%-16s", "bucket")
			for _, name := range names {
				fmt.Printf(" %10s", name)
			}
			fmt.Println()

			for i, b := range plot.Buckets {
				fmt.Printf("%-16s", b.Format("2006-01-02 15:04"))
				for _, name := range names {
					fmt.Printf(" %10s", dateutil.FormatHM(plot.Series[name][i]))
				}
				fmt.Println()
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "Start of the plot range (YYYY-MM-DD, default 30 days ago)")
	cmd.Flags().StringVar(&toStr, "to", "", "End of the plot range (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&bucketStr, "bucket", "24h", "Bucket size (Go duration, e.g. 24h, 168h)")

	return cmd
}

func buildTracker(cfg *config.Config, occupation string) (*session.Tracker, error) {
	store := ledger.NewStore(cfg.Paths.LocalLedger, logger)
	tracker, err := session.NewTracker(
		store,
		occupation,
		cfg.Tracking.GetShortBreak(),
		cfg.Tracking.GetMinSession(),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	return tracker, nil
}

func buildSyncer(cfg *config.Config) *session.Syncer {
	if cfg.Remote.Host == "" {
		return nil
	}

	store := remote.NewSFTPStore(remote.SFTPConfig{
		Host:     cfg.Remote.Host,
		Port:     cfg.Remote.GetPort(),
		Username: cfg.Remote.Username,
		Password: cfg.Remote.Password,
		KeyFile:  cfg.Remote.KeyFile,
	}, logger)
	mirror := ledger.NewStore(cfg.Paths.RemoteMirror, logger)

	return session.NewSyncer(store, mirror, cfg.Remote.RemotePath, logger)
}

// buildTotalView assembles the aggregate from the ledger, the contract
// calendar, the holiday calendar and the manual overrides
func buildTotalView(cfg *config.Config, rangeEnd time.Time) ([]aggregate.Record, contract.Calendar, error) {
	store := ledger.NewStore(cfg.Paths.LocalLedger, logger)
	l, err := store.Load(cfg.ActiveOccupation(), time.Now())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	l = ledger.Clean(l, cfg.Tracking.GetMinSession())

	// Open-ended contract periods run to the ledger's latest recorded end
	effectiveEnd := rangeEnd
	for _, iv := range l {
		if iv.End.After(effectiveEnd) {
			effectiveEnd = iv.End
		}
	}

	periods, err := contract.LoadPeriods(cfg.Paths.ContractPeriods, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load contract periods: %w", err)
	}
	contractCal := contract.BuildCalendar(periods, effectiveEnd)

	provider, err := holiday.ForJurisdiction(cfg.Location.Country, cfg.Location.Subdivision)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve holiday calendar: %w", err)
	}
	holidayCal := holiday.BuildCalendar(contractCal, provider, cfg.SpecialHolidays)

	var overrides []aggregate.Override
	if cfg.Paths.ManualOverrides != "" {
		overrides, err = aggregate.LoadOverrides(cfg.Paths.ManualOverrides, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load manual overrides: %w", err)
		}
	}

	records := aggregate.TotalView(l, contractCal, holidayCal, overrides, cfg.Tracking.GetMinSession())
	return records, contractCal, nil
}

func parseRange(fromStr, toStr string) (from, to time.Time, err error) {
	to = dateutil.Today()
	if toStr != "" {
		to, err = dateutil.ParseDate(toStr)
		if err != nil {
			return from, to, fmt.Errorf("invalid --to date '%s': %w", toStr, err)
		}
	}

	from = to.AddDate(0, 0, -30)
	if fromStr != "" {
		from, err = dateutil.ParseDate(fromStr)
		if err != nil {
			return from, to, fmt.Errorf("invalid --from date '%s': %w", fromStr, err)
		}
	}

	if from.After(to) {
		return from, to, fmt.Errorf("--from must not be after --to")
	}
	return from, to, nil
}

func filterRecords(records []aggregate.Record, from, to time.Time) []aggregate.Record {
	end := to.AddDate(0, 0, 1)
	filtered := records[:0]
	for _, r := range records {
		if r.Start.Before(from) || !r.Start.Before(end) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

func initLogger() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
