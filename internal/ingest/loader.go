package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mwd-projects/grinder/internal/logging"
	"github.com/mwd-projects/grinder/internal/phh"
	"github.com/mwd-projects/grinder/internal/store"
)

// HandFileExt is the conventional hand-history file extension.
const HandFileExt = ".phhs"

// RejectedRecord notes a record dropped for a shape violation.
type RejectedRecord struct {
	File   string
	HandID string
	Reason string
}

// LoadResult summarizes one full-refresh load.
type LoadResult struct {
	RunID         string
	FilesScanned  int
	HandsLoaded   int
	SeatsLoaded   int
	ActionsLoaded int
	Rejected      []RejectedRecord
}

// Loader runs the ingestion phase: parse every hand file under a data
// directory, normalize, and load the store in one clear-then-insert
// transaction. The store handle is owned by the caller.
type Loader struct {
	store store.Store
	log   zerolog.Logger
}

// NewLoader creates a Loader writing to s.
func NewLoader(s store.Store, log zerolog.Logger) *Loader {
	return &Loader{store: s, log: log}
}

// Run performs a full refresh from every *.phhs file under dataDir. A
// structural parse error in any file aborts the run and rolls the whole
// load back. Shape-invalid records are skipped and reported in the result.
func (l *Loader) Run(ctx context.Context, dataDir string) (*LoadResult, error) {
	files, err := filepath.Glob(filepath.Join(dataDir, "*"+HandFileExt))
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dataDir, err)
	}
	sort.Strings(files)

	result := &LoadResult{RunID: uuid.NewString()}

	refresh, err := l.store.BeginRefresh(ctx)
	if err != nil {
		return nil, err
	}
	defer refresh.Rollback()

	for _, file := range files {
		result.FilesScanned++
		if err := l.loadFile(ctx, refresh, file, result); err != nil {
			return nil, fmt.Errorf("loading %s: %w", file, err)
		}
	}

	if err := refresh.Commit(ctx, result.RunID, result.FilesScanned); err != nil {
		return nil, err
	}

	l.log.Info().
		Str(logging.RunIDKey, result.RunID).
		Int("files", result.FilesScanned).
		Int("hands", result.HandsLoaded).
		Int("rejected", len(result.Rejected)).
		Msg("refresh complete")

	return result, nil
}

func (l *Loader) loadFile(ctx context.Context, refresh *store.Refresh, path string, result *LoadResult) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := phh.NewScanner(f)
	for scanner.Scan() {
		raw := scanner.Hand()

		hand, seats, actions, err := Normalize(raw)
		if err != nil {
			var shape *ShapeError
			if errors.As(err, &shape) {
				result.Rejected = append(result.Rejected, RejectedRecord{
					File:   path,
					HandID: shape.HandID,
					Reason: shape.Reason,
				})
				l.log.Warn().Str(logging.FileKey, path).Str(logging.HandKey, shape.HandID).
					Str("reason", shape.Reason).Msg("record rejected")
				continue
			}
			return err
		}

		if err := refresh.InsertHand(ctx, hand); err != nil {
			return err
		}
		if err := refresh.InsertSeats(ctx, seats); err != nil {
			return err
		}
		if err := refresh.InsertActions(ctx, actions); err != nil {
			return err
		}

		result.HandsLoaded++
		result.SeatsLoaded += len(seats)
		result.ActionsLoaded += len(actions)
	}

	if err := scanner.Err(); err != nil {
		return err
	}
	return nil
}
