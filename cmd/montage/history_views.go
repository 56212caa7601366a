package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"montage/internal/history"
)

type runView struct {
	ID              string   `json:"id"`
	Status          string   `json:"status"`
	CreatedAt       string   `json:"created_at"`
	FinishedAt      string   `json:"finished_at,omitempty"`
	ImageCount      int      `json:"image_count"`
	Images          []string `json:"images,omitempty"`
	AudioPath       string   `json:"audio_path"`
	OutputPath      string   `json:"output_path,omitempty"`
	DurationSeconds float64  `json:"duration_seconds,omitempty"`
	SizeBytes       int64    `json:"size_bytes,omitempty"`
	Error           string   `json:"error,omitempty"`
}

func buildRunView(run *history.Run) runView {
	view := runView{
		ID:              run.ID,
		Status:          string(run.Status),
		CreatedAt:       run.CreatedAt.UTC().Format(time.RFC3339),
		ImageCount:      run.ImageCount,
		Images:          run.Images,
		AudioPath:       run.AudioPath,
		OutputPath:      run.OutputPath,
		DurationSeconds: run.OutputDuration.Seconds(),
		SizeBytes:       run.SizeBytes,
		Error:           run.ErrorMessage,
	}
	if run.FinishedAt != nil {
		view.FinishedAt = run.FinishedAt.UTC().Format(time.RFC3339)
	}
	return view
}

func buildRunViews(runs []*history.Run) []runView {
	views := make([]runView, 0, len(runs))
	for _, run := range runs {
		views = append(views, buildRunView(run))
	}
	return views
}

var historyColumns = []tableColumn{
	{Header: "ID"},
	{Header: "Status"},
	{Header: "Started"},
	{Header: "Images", Align: alignRight},
	{Header: "Duration", Align: alignRight},
	{Header: "Size", Align: alignRight},
	{Header: "Output"},
}

func buildHistoryFooter(runs []*history.Run) []string {
	var images int
	var total time.Duration
	var size int64
	for _, run := range runs {
		images += run.ImageCount
		total += run.OutputDuration
		size += run.SizeBytes
	}
	return []string{fmt.Sprintf("%d runs", len(runs)), "", "", fmt.Sprintf("%d", images), formatRunDuration(total), formatRunSize(size), ""}
}

func buildHistoryRows(runs []*history.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			formatStatusLabel(string(run.Status)),
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", run.ImageCount),
			formatRunDuration(run.OutputDuration),
			formatRunSize(run.SizeBytes),
			displayOutput(run),
		})
	}
	return rows
}

func buildRunDetailLines(run *history.Run) []string {
	lines := []string{
		fmt.Sprintf("Run:      %s", run.ID),
		fmt.Sprintf("Status:   %s", formatStatusLabel(string(run.Status))),
		fmt.Sprintf("Started:  %s", run.CreatedAt.Local().Format(time.DateTime)),
	}
	if run.FinishedAt != nil {
		lines = append(lines, fmt.Sprintf("Finished: %s (%s)", run.FinishedAt.Local().Format(time.DateTime), run.Elapsed().Round(time.Second)))
	}
	lines = append(lines, fmt.Sprintf("Audio:    %s", run.AudioPath))
	if run.OutputPath != "" {
		lines = append(lines,
			fmt.Sprintf("Output:   %s", run.OutputPath),
			fmt.Sprintf("Length:   %s", formatRunDuration(run.OutputDuration)),
			fmt.Sprintf("Size:     %s", formatRunSize(run.SizeBytes)),
		)
	}
	if msg := strings.TrimSpace(run.ErrorMessage); msg != "" {
		lines = append(lines, fmt.Sprintf("Error:    %s", msg))
	}
	lines = append(lines, fmt.Sprintf("Images:   %d", run.ImageCount))
	for i, image := range run.Images {
		lines = append(lines, fmt.Sprintf("  %3d. %s", i+1, image))
	}
	return lines
}

func formatStatusLabel(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return ""
	}
	lower := strings.ToLower(status)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatRunDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(100 * time.Millisecond).String()
}

func formatRunSize(size int64) string {
	if size <= 0 {
		return "-"
	}
	return humanize.IBytes(uint64(size))
}

func displayOutput(run *history.Run) string {
	if run.OutputPath != "" {
		return filepath.Base(run.OutputPath)
	}
	if run.ErrorMessage != "" {
		msg := run.ErrorMessage
		if len(msg) > 48 {
			msg = msg[:45] + "..."
		}
		return msg
	}
	return "-"
}
