// Package config loads the simulator's runtime configuration from
// environment variables and an optional config file: defaults set on a
// fresh viper.Viper, explicit env bindings, then a validator.v10 pass over
// the decoded struct so a malformed deployment fails fast with a
// ConfigError instead of panicking deep in a worker.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/baseball-sim/sim-core/internal/simerr"
)

// Config holds every setting the day/season driver, the iteration driver,
// and the HTTP surface need.
type Config struct {
	Server ServerConfig

	Workers         int `validate:"required,min=1"`
	SimulationRuns  int `validate:"required,min=1"`
	ClassifierDir   string `validate:"required"`
	StadiumFile     string `validate:"required"`
	ScheduleFile    string `validate:"required"`
	SafetyInningCap int `validate:"required,min=1"`

	RosterServiceURL string
}

// ServerConfig contains the HTTP bootstrap's listen settings.
type ServerConfig struct {
	Host      string
	Port      int `validate:"min=0"`
	DebugMode bool
}

var global *Config

// Load reads configuration from configPath (if non-empty) or from
// "simcli.yaml" / environment variables, falling back to defaults tuned
// for a local single-machine run.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("simcli")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.sim-core")
		v.AddConfigPath("/etc/sim-core")
	}

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug_mode", false)
	v.SetDefault("workers", 4)
	v.SetDefault("simulation_runs", 250)
	v.SetDefault("classifier_dir", "./classifiers")
	v.SetDefault("stadium_file", "./data/stadiums.json")
	v.SetDefault("schedule_file", "./data/schedule.json")
	v.SetDefault("safety_inning_cap", 50)
	v.SetDefault("roster_service_url", "")

	v.AutomaticEnv()
	v.BindEnv("server.host", "HOST")
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.debug_mode", "DEBUG_MODE")
	v.BindEnv("workers", "WORKERS")
	v.BindEnv("simulation_runs", "SIMULATION_RUNS")
	v.BindEnv("classifier_dir", "CLASSIFIER_DIR")
	v.BindEnv("stadium_file", "STADIUM_FILE")
	v.BindEnv("schedule_file", "SCHEDULE_FILE")
	v.BindEnv("safety_inning_cap", "SAFETY_INNING_CAP")
	v.BindEnv("roster_service_url", "ROSTER_SERVICE_URL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, simerr.WrapConfigError(err, "read config file")
		}
		fmt.Fprintln(os.Stderr, "no config file found, using defaults and environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:      v.GetString("server.host"),
			Port:      v.GetInt("server.port"),
			DebugMode: v.GetBool("server.debug_mode"),
		},
		Workers:          v.GetInt("workers"),
		SimulationRuns:   v.GetInt("simulation_runs"),
		ClassifierDir:    v.GetString("classifier_dir"),
		StadiumFile:      v.GetString("stadium_file"),
		ScheduleFile:     v.GetString("schedule_file"),
		SafetyInningCap:  v.GetInt("safety_inning_cap"),
		RosterServiceURL: v.GetString("roster_service_url"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, simerr.WrapConfigError(err, "invalid configuration")
	}

	global = cfg
	return cfg, nil
}

// Get returns the most recently loaded configuration, panicking if Load has
// not been called yet — a global accessor for handlers that run long
// after server bootstrap.
func Get() *Config {
	if global == nil {
		panic("config not loaded; call config.Load() first")
	}
	return global
}
