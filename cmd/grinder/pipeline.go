package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"github.com/mwd-projects/grinder/internal/cluster"
	"github.com/mwd-projects/grinder/internal/config"
	"github.com/mwd-projects/grinder/internal/ingest"
	"github.com/mwd-projects/grinder/internal/logging"
	"github.com/mwd-projects/grinder/internal/metrics"
	"github.com/mwd-projects/grinder/internal/store"
)

// parseFlags maps --key value / --key=value pairs onto resolve options.
func parseFlags(args []string) (config.ResolveOptions, error) {
	opts := config.ResolveOptions{}
	targets := map[string]*string{
		"--config":    &opts.ConfigPath,
		"--data":      &opts.CLIDataDir,
		"--db":        &opts.CLIDBPath,
		"--min-hands": &opts.CLIMinHands,
		"--clusters":  &opts.CLIClusters,
		"--seed":      &opts.CLISeed,
		"--log-level": &opts.CLILogLevel,
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		key, value, hasValue := strings.Cut(arg, "=")
		target, ok := targets[key]
		if !ok {
			return opts, fmt.Errorf("unknown flag: %s", arg)
		}
		if !hasValue {
			i++
			if i >= len(args) {
				return opts, fmt.Errorf("flag %s needs a value", key)
			}
			value = args[i]
		}
		*target = value
	}
	return opts, nil
}

func setup(args []string) (config.Config, zerolog.Logger, error) {
	opts, err := parseFlags(args)
	if err != nil {
		return config.Config{}, zerolog.Logger{}, err
	}
	cfg, err := config.Resolve(opts)
	if err != nil {
		return cfg, zerolog.Logger{}, err
	}
	zerolog.SetGlobalLevel(logging.ParseLevel(cfg.LogLevel.Value))
	return cfg, logging.New("grinder", os.Stderr), nil
}

func openStore(cfg config.Config) (store.Store, error) {
	s, err := store.Open(store.Config{DBPath: cfg.DBPath.Value})
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return s, nil
}

func runRun(args []string) error {
	cfg, log, err := setup(args)
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()

	result, err := ingest.NewLoader(s, log).Run(ctx, cfg.DataDir.Value)
	if err != nil {
		return err
	}
	printLoadResult(result)

	return analyze(ctx, cfg, log, s)
}

func runLoad(args []string) error {
	cfg, log, err := setup(args)
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := ingest.NewLoader(s, log).Run(context.Background(), cfg.DataDir.Value)
	if err != nil {
		return err
	}
	printLoadResult(result)
	return nil
}

func runProfile(args []string) error {
	cfg, log, err := setup(args)
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	minHands, _ := cfg.MinHandsInt()
	features, err := metrics.Compute(context.Background(), s, minHands, log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLAYER\tHANDS\tRAISE HANDS\tVPIP%\tAGGR%\tSHOWDOWN WIN%")
	for _, f := range features {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.1f\t%.1f\t%.1f\n",
			f.PlayerID, f.TotalHands, f.RaiseHands,
			f.VPIPPercent, f.AggressionPercent, f.ShowdownWinPercent)
	}
	return w.Flush()
}

func runCluster(args []string) error {
	cfg, log, err := setup(args)
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	return analyze(context.Background(), cfg, log, s)
}

// analyze derives features, clusters them, persists the profile table, and
// prints it.
func analyze(ctx context.Context, cfg config.Config, log zerolog.Logger, s store.Store) error {
	minHands, _ := cfg.MinHandsInt()
	clusters, _ := cfg.ClustersInt()
	seed, _ := cfg.SeedInt64()

	features, err := metrics.Compute(ctx, s, minHands, log)
	if err != nil {
		return err
	}

	points := make([]cluster.Point, len(features))
	for i, f := range features {
		points[i] = cluster.Point{
			PlayerID:    f.PlayerID,
			VPIP:        f.VPIPPercent,
			Aggression:  f.AggressionPercent,
			ShowdownWin: f.ShowdownWinPercent,
		}
	}

	assignments, err := cluster.Assign(points, cluster.Opts{Clusters: clusters, Seed: seed})
	if err != nil {
		return err
	}

	profiles := make([]store.Profile, len(assignments))
	for i, a := range assignments {
		profiles[i] = store.Profile{
			PlayerID:           a.PlayerID,
			VPIPPercent:        features[i].VPIPPercent,
			AggressionPercent:  features[i].AggressionPercent,
			ShowdownWinPercent: features[i].ShowdownWinPercent,
			Cluster:            a.Cluster,
			Archetype:          a.Archetype,
		}
	}

	if err := s.SaveProfiles(ctx, profiles); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLAYER\tVPIP%\tAGGR%\tSHOWDOWN WIN%\tCLUSTER\tARCHETYPE")
	for _, p := range profiles {
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%.1f\t%d\t%s\n",
			p.PlayerID, p.VPIPPercent, p.AggressionPercent,
			p.ShowdownWinPercent, p.Cluster, p.Archetype)
	}
	return w.Flush()
}

func runStats(args []string) error {
	cfg, _, err := setup(args)
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	stats, err := s.Stats(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("hands:    %d\n", stats.HandCount)
	fmt.Printf("seats:    %d\n", stats.SeatCount)
	fmt.Printf("actions:  %d\n", stats.ActionCount)
	fmt.Printf("profiles: %d\n", stats.ProfileCount)
	if stats.LastRunID != "" {
		fmt.Printf("last run: %s (%d files, %s)\n",
			stats.LastRunID, stats.LastRunFiles, stats.LastRunAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runConfig(args []string) error {
	cfg, _, err := setup(args)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SETTING\tVALUE\tSOURCE\tFROM")
	rows := []struct {
		name string
		rv   config.ResolvedValue
	}{
		{"data_dir", cfg.DataDir},
		{"db_path", cfg.DBPath},
		{"min_hands", cfg.MinHands},
		{"clusters", cfg.Clusters},
		{"seed", cfg.Seed},
		{"log_level", cfg.LogLevel},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.name, row.rv.Value, row.rv.Source, row.rv.From)
	}
	return w.Flush()
}

func printLoadResult(result *ingest.LoadResult) {
	fmt.Printf("Refreshed store from %d files: %d hands, %d seats, %d actions\n",
		result.FilesScanned, result.HandsLoaded, result.SeatsLoaded, result.ActionsLoaded)
	for _, r := range result.Rejected {
		fmt.Printf("  rejected %s (hand %s): %s\n", r.File, r.HandID, r.Reason)
	}
}
