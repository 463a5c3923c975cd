// Command sim-core boots the simulator's HTTP surface:
// gorilla/mux routing, gorilla/handlers access logging, rs/cors, and a
// charmbracelet/log structured logger, adapted from a single ad hoc
// /simulate request/response model to batch day/season/power-rankings
// endpoints.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/baseball-sim/sim-core/internal/classifier"
	"github.com/baseball-sim/sim-core/internal/config"
	"github.com/baseball-sim/sim-core/internal/season"
	"github.com/baseball-sim/sim-core/internal/simerr"
	"github.com/baseball-sim/sim-core/pkg/client"
)

func main() {
	configPath := flag.String("config", "", "path to a simcli.yaml config file")
	flag.Parse()

	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "simcore",
	})

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", "err", err)
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Fatal("startup failed", "err", err)
	}
	defer a.driver.Store.Close()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      a.router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // season simulations can run long
	}

	go func() {
		logger.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server stopped unexpectedly", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}

// app bundles the driver and loaded reference data every handler needs,
// closing HTTP handlers over a shared driver and store.
type app struct {
	cfg      *config.Config
	driver   *season.Driver
	schedule []season.ScheduleGame
	roster   *client.RosterClient
	logger   *charmlog.Logger
}

func newApp(cfg *config.Config, logger *charmlog.Logger) (*app, error) {
	classifiers, err := classifier.LoadFromDir(cfg.ClassifierDir)
	if err != nil {
		return nil, err
	}
	stadiums, err := season.LoadStadiums(cfg.StadiumFile)
	if err != nil {
		return nil, err
	}
	schedule, err := season.LoadSchedule(cfg.ScheduleFile)
	if err != nil {
		return nil, err
	}

	driver := season.NewDriver(classifiers, cfg.Workers, season.NoopStore{}, stadiums, logger)
	driver.InningCap = cfg.SafetyInningCap

	a := &app{cfg: cfg, driver: driver, schedule: schedule, logger: logger}
	if cfg.RosterServiceURL != "" {
		a.roster = client.New(cfg.RosterServiceURL)
	}
	return a, nil
}

func (a *app) router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", a.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/dailysim", a.handleDailySim).Methods(http.MethodPost)
	r.HandleFunc("/v1/seasonsim", a.handleSeasonSim).Methods(http.MethodPost)
	r.HandleFunc("/v1/powerrankings", a.handlePowerRankings).Methods(http.MethodPost)
	r.HandleFunc("/v1/sumseason", a.handleSumSeason).Methods(http.MethodPost)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})

	var handler http.Handler = r
	handler = corsHandler.Handler(handler)
	handler = handlers.CombinedLoggingHandler(os.Stdout, handler)
	handler = requestIDMiddleware(handler)
	return handler
}

// requestIDMiddleware stamps every request with a uuid for request-scoped
// logging.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", uuid.NewString())
		next.ServeHTTP(w, r)
	})
}

func (a *app) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// simRequest is the common JSON body shape for every simulation entry
// point: an iteration count plus optional day/season/team filters and an
// optional roster snapshot file reference.
type simRequest struct {
	Iterations int    `json:"iterations"`
	Season     int    `json:"season"`
	Day        int    `json:"day"`
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
	FileID     string `json:"file_id"`
	SaveStlats bool   `json:"save_stlats"`
}

func (req simRequest) iterationsOrDefault(cfg *config.Config) int {
	if req.Iterations > 0 {
		return req.Iterations
	}
	if cfg.SimulationRuns > 0 {
		return cfg.SimulationRuns
	}
	return season.DefaultIterations
}

func decodeSimRequest(r *http.Request) (simRequest, error) {
	var req simRequest
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return simRequest{}, simerr.WrapConfigError(err, "decode request body")
	}
	return req, nil
}

// loadSnapshot resolves the day's stlat snapshot: from the file named by
// fileID when one is supplied, otherwise from the remote roster service
// (retrying and falling back to its cache per the client's contract).
func (a *app) loadSnapshot(ctx context.Context, fileID string, seasonNum, day int) (map[string]season.StlatRecord, error) {
	if fileID != "" {
		data, err := os.ReadFile(fileID)
		if err != nil {
			return nil, simerr.WrapConfigError(err, "read stlat snapshot %s", fileID)
		}
		return season.LoadDaySnapshot(data)
	}
	if a.roster == nil {
		return nil, simerr.NewConfigError("request has no file_id and no roster service is configured")
	}
	data, err := a.roster.FetchDaySnapshot(ctx, seasonNum, day)
	if err != nil {
		return nil, err
	}
	return season.LoadDaySnapshot(data)
}

// handleDailySim simulates every scheduled game for one day.
func (a *app) handleDailySim(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSimRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	snapshot, err := a.loadSnapshot(r.Context(), req.FileID, req.Season, req.Day)
	if err != nil {
		writeError(w, err)
		return
	}

	games := filterByTeams(season.FilterSchedule(a.schedule, req.Season, req.Day), req.HomeTeam, req.AwayTeam)

	outcomes, err := a.driver.RunDay(r.Context(), games, snapshot, req.iterationsOrDefault(a.cfg), time.Now().UnixNano(), nil)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, season.RenderDayText(req.Season, req.Day, outcomes))
}

// handleSeasonSim simulates every scheduled day in req.Season in sequence,
// accumulating each team's win/loss record.
func (a *app) handleSeasonSim(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSimRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	days := season.DaysInSeason(a.schedule, req.Season)
	records := make(map[string]*season.TeamRecord)
	iterations := req.iterationsOrDefault(a.cfg)

	for _, day := range days {
		snapshot, err := a.loadSnapshot(r.Context(), snapshotPathForDay(req.FileID, day), req.Season, day)
		if err != nil {
			writeError(w, err)
			return
		}
		games := season.FilterSchedule(a.schedule, req.Season, day)
		outcomes, err := a.driver.RunDay(r.Context(), games, snapshot, iterations, time.Now().UnixNano(), nil)
		if err != nil {
			writeError(w, err)
			return
		}
		for _, o := range outcomes {
			season.ApplyOutcome(records, o)
		}
		a.logger.Info("season day simulated", "season", req.Season, "day", day, "games", len(outcomes))
	}

	body, err := season.RenderSeasonJSON(records)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// handlePowerRankings simulates one day and returns the top-10 strikeout,
// home run, and batting-average leaders text.
func (a *app) handlePowerRankings(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSimRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	snapshot, err := a.loadSnapshot(r.Context(), req.FileID, req.Season, req.Day)
	if err != nil {
		writeError(w, err)
		return
	}

	games := season.FilterSchedule(a.schedule, req.Season, req.Day)
	collect := season.NewStatsCollector()
	if _, err := a.driver.RunDay(r.Context(), games, snapshot, req.iterationsOrDefault(a.cfg), time.Now().UnixNano(), collect); err != nil {
		writeError(w, err)
		return
	}

	strikeouts := season.TopStrikeouts(collect.Sink.Game, 10)
	homeRuns := season.TopHomeRuns(collect.Sink.Game, 10)
	avg := season.TopBattingAverage(collect.Sink.Game, 10)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, season.RenderLeadersText(collect.Names, strikeouts, homeRuns, avg))
}

// handleSumSeason returns the day-segmented per-player stats JSON for the
// requested season, averaged per iteration within each day.
func (a *app) handleSumSeason(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSimRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	days := season.DaysInSeason(a.schedule, req.Season)
	iterations := req.iterationsOrDefault(a.cfg)
	collect := season.NewStatsCollector()

	for _, day := range days {
		games := season.FilterSchedule(a.schedule, req.Season, day)
		if len(games) == 0 {
			continue
		}
		snapshot, err := a.loadSnapshot(r.Context(), snapshotPathForDay(req.FileID, day), req.Season, day)
		if err != nil {
			writeError(w, err)
			return
		}
		if _, err := a.driver.RunDay(r.Context(), games, snapshot, iterations, time.Now().UnixNano(), collect); err != nil {
			writeError(w, err)
			return
		}
		collect.Sink.DivideSegmented(day, iterations)
	}

	body, err := season.RenderSegmentedStatsJSON(collect.Sink.Segmented)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// snapshotPathForDay substitutes the requested day into a file_id template
// shared across a season run; a caller that passes a bare template (with no
// "%d") gets the same file for every day, useful for fixture-backed tests.
func snapshotPathForDay(fileID string, day int) string {
	if fileID == "" {
		return ""
	}
	for _, r := range fileID {
		if r == '%' {
			return fmt.Sprintf(fileID, day)
		}
	}
	return fileID
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case simerr.IsConfigError(err):
		status = http.StatusBadRequest
	case simerr.IsDomainError(err):
		status = http.StatusUnprocessableEntity
	case simerr.IsTransientError(err):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func filterByTeams(games []season.ScheduleGame, homeTeam, awayTeam string) []season.ScheduleGame {
	if homeTeam == "" && awayTeam == "" {
		return games
	}
	out := make([]season.ScheduleGame, 0, len(games))
	for _, g := range games {
		if homeTeam != "" && g.HomeTeam != homeTeam {
			continue
		}
		if awayTeam != "" && g.AwayTeam != awayTeam {
			continue
		}
		out = append(out, g)
	}
	return out
}
