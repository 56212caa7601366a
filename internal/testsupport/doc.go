// Package testsupport holds helpers shared by montage tests: isolated
// configurations rooted in t.TempDir, stub ffmpeg/ffprobe binaries on PATH,
// and sized placeholder files.
package testsupport
