package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const runColumns = "id, status, images_json, image_count, audio_path, output_path, output_duration_ms, size_bytes, error_message, created_at, finished_at"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		id          string
		statusStr   string
		imagesJSON  string
		imageCount  int
		audioPath   string
		outputPath  sql.NullString
		durationMS  int64
		sizeBytes   int64
		errorMsg    sql.NullString
		createdRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&statusStr,
		&imagesJSON,
		&imageCount,
		&audioPath,
		&outputPath,
		&durationMS,
		&sizeBytes,
		&errorMsg,
		&createdRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}

	run := &Run{
		ID:             id,
		Status:         Status(statusStr),
		ImageCount:     imageCount,
		AudioPath:      audioPath,
		OutputPath:     outputPath.String,
		OutputDuration: time.Duration(durationMS) * time.Millisecond,
		SizeBytes:      sizeBytes,
		ErrorMessage:   errorMsg.String,
	}
	if imagesJSON != "" {
		_ = json.Unmarshal([]byte(imagesJSON), &run.Images)
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		run.CreatedAt = created
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}

var likeEscaper = strings.NewReplacer("%", "", "_", "")

// escapeLike drops LIKE wildcards; run IDs never contain them.
func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
