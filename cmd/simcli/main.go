// Command simcli is a cobra-based CLI front end for the day/season driver:
// a RootCmd with one AddCommand per subcommand, each built by a function
// returning *cobra.Command with flags bound via cmd.Flags().
package main

import (
	"fmt"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/baseball-sim/sim-core/internal/classifier"
	"github.com/baseball-sim/sim-core/internal/config"
	"github.com/baseball-sim/sim-core/internal/season"
	"github.com/baseball-sim/sim-core/internal/simerr"
)

var rootCmd = &cobra.Command{
	Use:   "simcli",
	Short: "Monte Carlo baseball simulation driver",
	Long:  "simcli runs the day/season driver from the command line: simulate a day's schedule, a full season, or a single debug game.",
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to a simcli.yaml config file")
	rootCmd.AddCommand(dayCmd())
	rootCmd.AddCommand(seasonCmd())
	rootCmd.AddCommand(gameCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps the CLI's exit contract: 0 on success, nonzero on
// missing input files or a ConfigError.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if simerr.IsConfigError(err) {
		return 2
	}
	if simerr.IsDomainError(err) {
		return 3
	}
	return 1
}

func newLogger() *charmlog.Logger {
	return charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "simcli",
	})
}

func loadConfigForCmd(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path, _ = cmd.Root().PersistentFlags().GetString("config")
	}
	return config.Load(path)
}

// bootstrapDriver loads classifiers, stadiums, and schedule per cfg and
// builds a season.Driver with a persistence-free store, the shape every
// subcommand needs before it can simulate anything.
func bootstrapDriver(cfg *config.Config, logger *charmlog.Logger) (*season.Driver, []season.ScheduleGame, error) {
	classifiers, err := classifier.LoadFromDir(cfg.ClassifierDir)
	if err != nil {
		return nil, nil, err
	}
	stadiums, err := season.LoadStadiums(cfg.StadiumFile)
	if err != nil {
		return nil, nil, err
	}
	schedule, err := season.LoadSchedule(cfg.ScheduleFile)
	if err != nil {
		return nil, nil, err
	}

	driver := season.NewDriver(classifiers, cfg.Workers, season.NoopStore{}, stadiums, logger)
	driver.InningCap = cfg.SafetyInningCap
	return driver, schedule, nil
}

func loadSnapshotFile(path string) (map[string]season.StlatRecord, error) {
	if path == "" {
		return nil, simerr.NewConfigError("missing --snapshot file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, simerr.WrapConfigError(err, "read stlat snapshot %s", path)
	}
	return season.LoadDaySnapshot(data)
}

// dayCmd simulates every scheduled game on a single day and prints the
// per-game aggregate outcomes, mirroring the /v1/dailysim endpoint.
func dayCmd() *cobra.Command {
	var snapshotPath string
	var seasonNum, day, iterations int

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Simulate one day's schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := loadConfigForCmd(cmd)
			if err != nil {
				return err
			}
			driver, schedule, err := bootstrapDriver(cfg, logger)
			if err != nil {
				return err
			}
			snapshot, err := loadSnapshotFile(snapshotPath)
			if err != nil {
				return err
			}

			games := season.FilterSchedule(schedule, seasonNum, day)
			if iterations <= 0 {
				iterations = cfg.SimulationRuns
			}

			outcomes, err := driver.RunDay(cmd.Context(), games, snapshot, iterations, time.Now().UnixNano(), nil)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), season.RenderDayText(seasonNum, day, outcomes))
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "path to the day's stlat snapshot JSON")
	cmd.Flags().IntVar(&seasonNum, "season", 0, "season number")
	cmd.Flags().IntVar(&day, "day", 0, "day number")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "Monte Carlo iterations per matchup (defaults to config)")
	return cmd
}

// seasonCmd simulates every scheduled day in a season in sequence, writing
// the accumulated team records as JSON, mirroring /v1/seasonsim.
func seasonCmd() *cobra.Command {
	var snapshotTemplate, out string
	var seasonNum, iterations int

	cmd := &cobra.Command{
		Use:   "season",
		Short: "Simulate a full season",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := loadConfigForCmd(cmd)
			if err != nil {
				return err
			}
			driver, schedule, err := bootstrapDriver(cfg, logger)
			if err != nil {
				return err
			}
			if iterations <= 0 {
				iterations = cfg.SimulationRuns
			}

			days := season.DaysInSeason(schedule, seasonNum)
			records := make(map[string]*season.TeamRecord)

			for _, d := range days {
				snapshot, err := loadSnapshotFile(fmt.Sprintf(snapshotTemplate, d))
				if err != nil {
					return err
				}
				games := season.FilterSchedule(schedule, seasonNum, d)
				outcomes, err := driver.RunDay(cmd.Context(), games, snapshot, iterations, time.Now().UnixNano(), nil)
				if err != nil {
					return err
				}
				for _, o := range outcomes {
					season.ApplyOutcome(records, o)
				}
				logger.Info("day simulated", "season", seasonNum, "day", d, "games", len(outcomes))
			}

			body, err := season.RenderSeasonJSON(records)
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(body))
				return nil
			}
			return os.WriteFile(out, body, 0644)
		},
	}

	cmd.Flags().StringVar(&snapshotTemplate, "snapshot-template", "", "printf-style path template for each day's snapshot, e.g. snapshots/day-%d.json")
	cmd.Flags().StringVar(&out, "out", "", "write season JSON here instead of stdout")
	cmd.Flags().IntVar(&seasonNum, "season", 0, "season number")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "Monte Carlo iterations per matchup (defaults to config)")
	return cmd
}

// gameCmd runs one scheduled game's matchup in isolation and prints its
// aggregate line, a debugging entry point with no HTTP analogue.
func gameCmd() *cobra.Command {
	var snapshotPath, gameID string
	var iterations int

	cmd := &cobra.Command{
		Use:   "game",
		Short: "Simulate a single scheduled game by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := loadConfigForCmd(cmd)
			if err != nil {
				return err
			}
			driver, schedule, err := bootstrapDriver(cfg, logger)
			if err != nil {
				return err
			}
			snapshot, err := loadSnapshotFile(snapshotPath)
			if err != nil {
				return err
			}

			var match *season.ScheduleGame
			for i := range schedule {
				if schedule[i].ID == gameID {
					match = &schedule[i]
					break
				}
			}
			if match == nil {
				return simerr.NewConfigError("no scheduled game with id %s", gameID)
			}
			if iterations <= 0 {
				iterations = cfg.SimulationRuns
			}

			outcomes, err := driver.RunDay(cmd.Context(), []season.ScheduleGame{*match}, snapshot, iterations, time.Now().UnixNano(), nil)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), season.RenderDayText(match.Season, match.Day, outcomes))
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "path to the day's stlat snapshot JSON")
	cmd.Flags().StringVar(&gameID, "game-id", "", "scheduled game id to simulate")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "Monte Carlo iterations (defaults to config)")
	return cmd
}
