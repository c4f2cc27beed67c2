package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"skysurvey-sim/internal/admin"
	"skysurvey-sim/internal/config"
	"skysurvey-sim/internal/environment"
	"skysurvey-sim/internal/logging"
	"skysurvey-sim/internal/observatory"
	"skysurvey-sim/internal/program"
	"skysurvey-sim/internal/survey"
)

var (
	simPrintOnly  bool
	simJSON       bool
	simTUI        bool
	simConfigPath string
	simSchemaPath string
	simLogFile    string
	simNights     int
	simAdminAddr  string
	simVerbose    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the survey simulator",
	Long:  "simulate drives the telescope through its observing program night by night, emitting visit records, rejection logs, and status rows.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}
		opts := cfg.Options()

		prog, err := loadProgram(cfg)
		if err != nil {
			return err
		}

		prov, err := newProviders(cfg, opts)
		if err != nil {
			return err
		}
		obs, err := observatory.New(opts, prov)
		if err != nil {
			return err
		}

		vw, rw, sw, cleanup, err := newWriters(prog, opts, simPrintOnly, simJSON, simTUI, simLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		runCfg := survey.RunnerConfig{
			MaxNights:   cfg.Run.MaxNights,
			StatusEvery: cfg.Run.StatusEvery,
			RotateEvery: cfg.Run.RotateEvery,
			BatchSize:   cfg.Run.BatchSize,
		}
		if simNights > 0 {
			runCfg.MaxNights = simNights
		}
		if runID := os.Getenv("RUN_ID"); runID != "" {
			runCfg.RunID = runID
		}

		runner, err := survey.NewRunner(obs, prog, runCfg, vw, rw, sw)
		if err != nil {
			return err
		}

		// Stdout carries records or the TUI, so logs go to stderr. The
		// TUI owns the whole terminal and shows events itself.
		var logDest io.Writer = os.Stderr
		if simTUI {
			logDest = io.Discard
		}
		logger := logging.NewWithWriter(logDest, simVerbose)
		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), logger))
		defer cancel()

		if simAdminAddr != "" {
			srv := admin.NewServer(runner, prog, opts)
			go func() {
				logger.Info("admin server listening", "addr", simAdminAddr)
				if err := srv.Start(simAdminAddr); err != nil && err != http.ErrServerClosed {
					logger.Error("admin server failed", "err", err)
				}
			}()
			if aw, ok := vw.(survey.AdminStatusWriter); ok {
				aw.SetAdminStatus(true)
			}
		}

		done := make(chan struct{})
		go func() {
			runner.Run(ctx)
			close(done)
		}()

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigs:
			cancel()
			<-done
		case <-done:
		}
		return nil
	},
}

// loadProgram resolves the observing program from the config: an explicit
// YAML file wins, then a built-in campaign by name.
func loadProgram(cfg *config.SurveyConfig) (*program.Program, error) {
	if cfg.ProgramFile != "" {
		return program.Load(cfg.ProgramFile)
	}
	name := cfg.Program
	if name == "" {
		name = "baseline"
	}
	if p, ok := program.BuiltIn()[name]; ok {
		return &p, nil
	}
	return nil, fmt.Errorf("unknown program %q", name)
}

// newProviders wires recorded weather inputs and the downtime calendar
// into the observatory. Empty settings leave the seeded synthetics.
func newProviders(cfg *config.SurveyConfig, opts observatory.Options) (observatory.Providers, error) {
	var prov observatory.Providers
	if cfg.Environment.CloudDB != "" {
		db, err := environment.OpenCloudDB(cfg.Environment.CloudDB, opts.StartMJD)
		if err != nil {
			return prov, err
		}
		prov.Clouds = db
	}
	if cfg.Environment.SeeingDB != "" {
		db, err := environment.OpenSeeingDB(cfg.Environment.SeeingDB, opts.StartMJD)
		if err != nil {
			return prov, err
		}
		prov.Seeing = db
	}
	if set := cfg.DowntimeSet(opts.Seed, int(opts.SpanDays())); set.Len() > 0 {
		prov.Down = set
	}
	return prov, nil
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print records to STDOUT instead of writing to DB")
	simulateCmd.Flags().BoolVar(&simJSON, "json", false, "Emit JSON lines instead of the colorized log")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Render a full-screen terminal UI")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/survey.yaml", "Path to survey configuration YAML")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/survey.cue", "Path to CUE schema file")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export visit/rejection/status logs (JSONL)")
	simulateCmd.Flags().IntVar(&simNights, "nights", 0, "Stop after this many nights (0 runs the whole survey)")
	simulateCmd.Flags().StringVar(&simAdminAddr, "admin", ":8080", "Admin server listen address (empty disables)")
	simulateCmd.Flags().BoolVar(&simVerbose, "verbose", false, "Enable debug logging")
}
