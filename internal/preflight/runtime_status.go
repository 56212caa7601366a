package preflight

import (
	"context"
	"errors"
	"fmt"

	"montage/internal/config"
	"montage/internal/history"
	"montage/internal/runlock"
	"montage/internal/services"
)

// CheckHistoryFromConfig reports whether the run ledger is usable.
func CheckHistoryFromConfig(ctx context.Context, cfg *config.Config) Result {
	const name = "History"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if !cfg.History.Enabled {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	store, err := history.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("open failed: %v", err)}
	}
	defer store.Close()

	runs, err := store.List(ctx, 0)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("query failed: %v", err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d runs recorded (%s)", len(runs), store.Path())}
}

// CheckRunLock reports whether an assembly currently holds the run lock.
// A held lock is not a failure.
func CheckRunLock(cfg *config.Config) Result {
	const name = "Encoder"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	lock, err := runlock.Acquire(cfg.LockPath())
	if errors.Is(err, services.ErrBusy) {
		return Result{Name: name, Passed: true, Detail: "Assembly in progress"}
	}
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	_ = lock.Release()
	return Result{Name: name, Passed: true, Detail: "Idle"}
}
