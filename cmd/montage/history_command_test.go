package main

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func TestHistoryListAndShow(t *testing.T) {
	env := setupCLITestEnv(t)
	images := env.images(t, 2)

	out, _, err := runCLI(t, append([]string{"assemble"}, images...), env.configPath)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	output := strings.TrimSpace(out)

	listing, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, listing, "Completed")
	requireContains(t, listing, "10s")

	raw, _, err := runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history --json: %v", err)
	}
	var views []runView
	if err := json.Unmarshal([]byte(raw), &views); err != nil {
		t.Fatalf("decode history json: %v\n%s", err, raw)
	}
	if len(views) != 1 || views[0].OutputPath != output || views[0].DurationSeconds != 10 {
		t.Fatalf("unexpected history json: %+v", views)
	}

	detail, _, err := runCLI(t, []string{"history", "show", views[0].ID[:8]}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, detail, views[0].ID)
	requireContains(t, detail, images[1])
}

func TestHistoryShowUnknownRun(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"history", "show", "deadbeef"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown run")
	}
	requireContains(t, err.Error(), "no run matches")
}

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded")

	out, _, err = runCLI(t, []string{"history", "prune", "--older-than", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("history prune: %v", err)
	}
	requireContains(t, out, "Removed 0 run(s)")
}

func TestAssembleWithHistoryDisabled(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.History.Enabled = false
	writeTestConfig(t, env.configPath, env.cfg)
	images := env.images(t, 1)

	if _, _, err := runCLI(t, append([]string{"assemble"}, images...), env.configPath); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if _, err := os.Stat(env.cfg.HistoryPath()); !os.IsNotExist(err) {
		t.Fatalf("expected no history database, stat err = %v", err)
	}
	_, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err == nil {
		t.Fatal("expected history to fail when disabled")
	}
	requireContains(t, err.Error(), "disabled")
}
