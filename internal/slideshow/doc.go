// Package slideshow assembles still images and a background track into a
// single MP4.
//
// Each image becomes a fixed-length segment that zooms towards its centre and
// fades at its edges; the first segment only fades out. Segments are composed
// onto one canvas sized to the largest image, joined back to back, and the
// result is cut to whichever is shorter of the slideshow and the audio.
//
// The package is split into pure planning steps (PlanTimeline,
// BuildFilterGraph, BuildArgs, OutputPath) and the Assembler, which probes the
// inputs with ffprobe and drives a single ffmpeg invocation.
package slideshow
