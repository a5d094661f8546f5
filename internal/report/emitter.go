// Package report serializes the crawl transcript and tree map to their
// artifact files.
package report

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"pymap/internal/render"
)

// mapHeader is the fixed comment header written at the top of the map file.
const mapHeader = `# Program Map:
# This file outlines the directory and file structure of the crawled
# project, annotating each Python source file with the classes and
# functions it defines.
#`

// Status reports the outcome of writing the two artifacts. The sinks are
// independent: one failing does not stop the other from being written.
type Status struct {
	LogPath string
	MapPath string
	LogErr  error
	MapErr  error
}

// OK reports whether both artifacts were written.
func (s Status) OK() bool {
	return s.LogErr == nil && s.MapErr == nil
}

// Message summarizes sink failures for the caller; empty when OK.
func (s Status) Message() string {
	var parts []string
	if s.LogErr != nil {
		parts = append(parts, fmt.Sprintf("Error writing %s: %v", s.LogPath, s.LogErr))
	}
	if s.MapErr != nil {
		parts = append(parts, fmt.Sprintf("Error writing %s: %v", s.MapPath, s.MapErr))
	}
	return strings.Join(parts, "; ")
}

// Emitter writes the transcript log and the commented map file.
type Emitter struct {
	LogPath string
	MapPath string
}

// New creates an emitter targeting the given artifact paths.
func New(logPath, mapPath string) *Emitter {
	return &Emitter{LogPath: logPath, MapPath: mapPath}
}

// Emit writes the transcript to the log artifact and the map lines, under
// the fixed comment header, to the map artifact. I/O failures are collected
// into the returned status instead of propagating.
func (e *Emitter) Emit(transcript []render.Line, mapLines []string) Status {
	st := Status{LogPath: e.LogPath, MapPath: e.MapPath}

	logLines := make([]string, 0, len(transcript))
	for _, line := range transcript {
		logLines = append(logLines, line.Text)
	}
	st.LogErr = writeLines(e.LogPath, logLines)

	st.MapErr = writeLines(e.MapPath, append([]string{mapHeader}, mapLines...))

	if !st.OK() {
		log.Error().Str("msg", st.Message()).Msg("report: emit failed")
	}
	return st
}

// writeLines opens path once, writes every line, and closes the file on
// every exit path.
func writeLines(path string, lines []string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, werr := w.WriteString(line + "\n"); werr != nil {
			return fmt.Errorf("write %s: %w", path, werr)
		}
	}
	if werr := w.Flush(); werr != nil {
		return fmt.Errorf("write %s: %w", path, werr)
	}
	return nil
}
