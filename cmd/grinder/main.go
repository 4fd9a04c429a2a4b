package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = runRun(os.Args[2:])
	case "load":
		err = runLoad(os.Args[2:])
	case "profile":
		err = runProfile(os.Args[2:])
	case "cluster":
		err = runCluster(os.Args[2:])
	case "stats":
		err = runStats(os.Args[2:])
	case "config":
		err = runConfig(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("grinder %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`grinder %s — poker hand-history ETL and player-style clustering

Usage:
  grinder <command> [flags]

Commands:
  run             Full refresh: load hand files, derive features, cluster, persist profiles
  load            Load hand files into the store (full refresh, no analytics)
  profile         Print derived per-player feature rows from a loaded store
  cluster         Cluster a loaded store into archetypes and persist profiles
  stats           Show store row counts and last refresh metadata
  config          Show resolved configuration and value sources
  version         Print version

Flags:
  --config <path>      Config file (default grinder.yaml)
  --data <dir>         Hand-history directory (default data)
  --db <path>          SQLite database path (default poker.db)
  --min-hands <n>      Qualification floor, strictly-greater-than (default 10)
  --clusters <n>       Cluster count (default 4)
  --seed <n>           Clustering seed (default 42)
  --log-level <level>  zerolog level (default info)
`, version)
}
