package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDefaults(t *testing.T) {
	cfg, err := Resolve(ResolveOptions{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if cfg.DataDir.Value != "data" || cfg.DataDir.Source != SourceDefault {
		t.Errorf("data_dir = %+v", cfg.DataDir)
	}
	if cfg.DBPath.Value != "poker.db" {
		t.Errorf("db_path = %+v", cfg.DBPath)
	}
	if n, _ := cfg.MinHandsInt(); n != 10 {
		t.Errorf("min_hands = %d", n)
	}
	if n, _ := cfg.ClustersInt(); n != 4 {
		t.Errorf("clusters = %d", n)
	}
	if n, _ := cfg.SeedInt64(); n != 42 {
		t.Errorf("seed = %d", n)
	}
}

func TestResolveFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grinder.yaml")
	content := "data_dir: /srv/hands\nmin_hands: 25\nseed: 7\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Resolve(ResolveOptions{ConfigPath: path})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if cfg.DataDir.Value != "/srv/hands" || cfg.DataDir.Source != SourceConfig {
		t.Errorf("data_dir = %+v", cfg.DataDir)
	}
	if cfg.MinHands.Value != "25" || cfg.MinHands.From != path {
		t.Errorf("min_hands = %+v", cfg.MinHands)
	}
	if n, _ := cfg.SeedInt64(); n != 7 {
		t.Errorf("seed = %d", n)
	}
	// Untouched settings keep their defaults.
	if cfg.Clusters.Source != SourceDefault {
		t.Errorf("clusters = %+v", cfg.Clusters)
	}
}

func TestResolvePrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grinder.yaml")
	if err := os.WriteFile(path, []byte("db_path: from-file.db\nmin_hands: 20\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GRINDER_DB_PATH", "from-env.db")
	t.Setenv("GRINDER_MIN_HANDS", "30")

	cfg, err := Resolve(ResolveOptions{
		ConfigPath:  path,
		CLIMinHands: "40",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if cfg.DBPath.Value != "from-env.db" || cfg.DBPath.Source != SourceEnv {
		t.Errorf("env must beat file: %+v", cfg.DBPath)
	}
	if cfg.MinHands.Value != "40" || cfg.MinHands.Source != SourceCLI {
		t.Errorf("cli must beat env: %+v", cfg.MinHands)
	}
}

func TestResolveRejectsBadIntegers(t *testing.T) {
	_, err := Resolve(ResolveOptions{
		ConfigPath:  filepath.Join(t.TempDir(), "missing.yaml"),
		CLIMinHands: "plenty",
	})
	if err == nil {
		t.Fatal("expected an error for non-integer min_hands")
	}
}

func TestResolveMinHandsBounds(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	// Zero disables the floor and must resolve cleanly.
	cfg, err := Resolve(ResolveOptions{ConfigPath: missing, CLIMinHands: "0"})
	if err != nil {
		t.Fatalf("min_hands 0 rejected: %v", err)
	}
	if n, _ := cfg.MinHandsInt(); n != 0 {
		t.Errorf("min_hands = %d, want 0", n)
	}

	if _, err := Resolve(ResolveOptions{ConfigPath: missing, CLIMinHands: "-3"}); err == nil {
		t.Fatal("expected an error for negative min_hands")
	}
}

func TestResolveMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grinder.yaml")
	if err := os.WriteFile(path, []byte("data_dir: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Resolve(ResolveOptions{ConfigPath: path}); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}
