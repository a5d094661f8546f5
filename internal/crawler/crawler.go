// Package crawler walks a directory tree, analyzes Python source files, and
// builds the two synchronized crawl outputs: the flat transcript and the
// commented tree map.
package crawler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"pymap/internal/analyzer"
	"pymap/internal/config"
	"pymap/internal/render"
)

// Status tracks the crawl state machine: Idle until the first crawl starts,
// Running while one is in flight, then Completed or Failed.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusCompleted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FileRecord captures one analyzed source file for the history store.
type FileRecord struct {
	Path      string
	Classes   []string
	Functions []string
	Error     string
}

// Result accumulates everything one crawl produced. Transcript and MapLines
// reflect the exact same traversal order and the same set of exclusions.
type Result struct {
	Root       string
	StartedAt  time.Time
	Status     Status
	Message    string
	Transcript []render.Line
	MapLines   []string

	Dirs     int
	Files    int
	Analyzed int
	Failures int

	FileRecords []FileRecord
}

// Crawler runs sequential, depth-first crawls of a directory tree. One
// crawler runs at most one crawl at a time.
type Crawler struct {
	cfg *config.Config

	mu     sync.Mutex
	status Status
}

// New creates a crawler with the given crawl configuration.
func New(cfg *config.Config) *Crawler {
	return &Crawler{cfg: cfg, status: StatusIdle}
}

// Status returns the crawler's current state.
func (c *Crawler) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Crawl walks root depth-first top-down and builds the transcript and map.
// Every transcript line is also streamed through onLine as it is produced,
// so an interactive caller can display progress live.
//
// Per-file read and parse failures are recorded as transcript lines and
// never abort the walk; only an invalid root produces a Failed result.
// Starting a crawl while another is Running returns an error.
func (c *Crawler) Crawl(root string, onLine func(render.Line)) (*Result, error) {
	c.mu.Lock()
	if c.status == StatusRunning {
		c.mu.Unlock()
		return nil, fmt.Errorf("a crawl is already running")
	}
	c.status = StatusRunning
	c.mu.Unlock()

	if onLine == nil {
		onLine = func(render.Line) {}
	}

	res := &Result{Root: root, StartedAt: time.Now(), Status: StatusRunning}
	defer func() {
		c.mu.Lock()
		c.status = res.Status
		c.mu.Unlock()
	}()

	emit := func(kind render.Kind, text string) {
		line := render.Line{Kind: kind, Text: text}
		res.Transcript = append(res.Transcript, line)
		onLine(line)
	}

	emit(render.KindHeader, fmt.Sprintf("--- Crawl Log Started: %s ---", res.StartedAt.Format("2006-01-02 15:04:05")))
	emit(render.KindInfo, "")

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		res.Status = StatusFailed
		res.Message = fmt.Sprintf("Error: '%s' is not a valid directory.", root)
		emit(render.KindError, res.Message)
		res.MapLines = append(res.MapLines, res.Message)
		log.Error().Str("root", root).Msg("crawler: root is not a directory")
		return res, nil
	}

	emit(render.KindHeader, fmt.Sprintf("Crawling directory: %s", root))
	emit(render.KindInfo, "")

	res.MapLines = append(res.MapLines, render.Comment(render.Prefix(0, true)+filepath.Base(root)+"/"))

	log.Debug().Str("root", root).Msg("crawler: starting walk")
	c.walk(root, root, 0, res, emit)

	emit(render.KindInfo, "")
	emit(render.KindHeader, fmt.Sprintf("--- Crawl complete for %s. ---", root))

	res.Status = StatusCompleted
	log.Debug().
		Int("dirs", res.Dirs).
		Int("files", res.Files).
		Int("analyzed", res.Analyzed).
		Int("failures", res.Failures).
		Msg("crawler: walk complete")
	return res, nil
}

// walk renders one directory's children, analyzes its eligible source files,
// then recurses into each subdirectory. Children render at an indent equal
// to the directory's own depth (root = 0), matching both outputs.
func (c *Crawler) walk(root, dir string, depth int, res *Result, emit func(render.Kind, string)) {
	if rel := relPath(root, dir); rel != "." {
		emit(render.KindInfo, "")
		emit(render.KindDirectory, fmt.Sprintf("Directory: %s%c", rel, filepath.Separator))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		msg := fmt.Sprintf("An error occurred during crawling: %v", err)
		emit(render.KindError, msg)
		res.MapLines = append(res.MapLines, render.Comment(msg))
		res.Failures++
		log.Error().Err(err).Str("dir", dir).Msg("crawler: read dir")
		return
	}

	var dirs, files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if c.excludedDir(name) {
				continue
			}
			dirs = append(dirs, name)
			continue
		}
		files = append(files, name)
	}
	sort.Strings(dirs)
	sort.Strings(files)

	// Subdirectories render before files at every level; the terminal branch
	// symbol goes to the last entry of the combined list.
	combined := append(append([]string{}, dirs...), files...)
	for i, name := range combined {
		isLast := i == len(combined)-1
		prefix := render.Prefix(depth, isLast)

		if i < len(dirs) {
			res.Dirs++
			res.MapLines = append(res.MapLines, render.Comment(prefix+name+"/"))
			emit(render.KindDirectory, "  "+prefix+name)
			continue
		}

		res.Files++
		res.MapLines = append(res.MapLines, render.Comment(prefix+name))
		emit(c.fileKind(name), "  "+prefix+name)

		switch {
		case c.excludedSource(name):
			emit(render.KindInfo, fmt.Sprintf("    [INFO] Ignoring %s: %s", c.cfg.Crawl.ExcludedFile, name))
		case c.eligibleSource(name):
			c.analyzeFile(root, filepath.Join(dir, name), depth, res, emit)
		}
	}

	for _, name := range dirs {
		c.walk(root, filepath.Join(dir, name), depth+1, res, emit)
	}
}

// analyzeFile runs the source analyzer over one eligible file and renders
// the outcome into both outputs. Failures become inline lines, not errors.
func (c *Crawler) analyzeFile(root, path string, depth int, res *Result, emit func(render.Kind, string)) {
	name := filepath.Base(path)
	record := FileRecord{Path: relPath(root, path)}
	res.Analyzed++

	src, err := os.ReadFile(path)
	if err != nil {
		res.Failures++
		record.Error = err.Error()
		res.FileRecords = append(res.FileRecords, record)
		emit(render.KindError, fmt.Sprintf("    [PY] Error analyzing %s: %v", name, err))
		res.MapLines = append(res.MapLines, render.Comment(render.NotePrefix(depth)+fmt.Sprintf("Error analyzing: %v", err)))
		log.Debug().Err(err).Str("file", path).Msg("crawler: read source")
		return
	}

	a := analyzer.Analyze(src)
	switch {
	case a.Failure == analyzer.FailSyntax:
		res.Failures++
		record.Error = a.Message
		emit(render.KindError, fmt.Sprintf("    [PY] Syntax Error in %s: %s", name, a.Message))
		res.MapLines = append(res.MapLines, render.Comment(render.NotePrefix(depth)+"Syntax Error: "+a.Message))
		log.Debug().Str("file", path).Str("msg", a.Message).Msg("crawler: syntax error")

	case a.Failed():
		res.Failures++
		record.Error = a.Message
		emit(render.KindError, fmt.Sprintf("    [PY] Error analyzing %s: %s", name, a.Message))
		res.MapLines = append(res.MapLines, render.Comment(render.NotePrefix(depth)+"Error analyzing: "+a.Message))
		log.Debug().Str("file", path).Str("msg", a.Message).Msg("crawler: analyze failed")

	case a.Empty():
		emit(render.KindInfo, fmt.Sprintf("    [PY] No functions or classes found in %s", name))
		res.MapLines = append(res.MapLines, render.Comment(render.NotePrefix(depth)+"No functions or classes found."))

	default:
		record.Classes = a.Classes
		record.Functions = a.Functions
		emit(render.KindSourceFile, fmt.Sprintf("    [PY] Analysis for %s:", name))
		if len(a.Classes) > 0 {
			emit(render.KindClass, "      Classes: "+strings.Join(a.Classes, ", "))
			for _, class := range a.Classes {
				res.MapLines = append(res.MapLines, render.Comment(render.DefPrefix(depth)+"Class: "+class))
			}
		}
		if len(a.Functions) > 0 {
			emit(render.KindFunction, "      Functions: "+strings.Join(a.Functions, ", "))
			for _, fn := range a.Functions {
				res.MapLines = append(res.MapLines, render.Comment(render.DefPrefix(depth)+"Function: "+fn))
			}
		}
	}

	res.FileRecords = append(res.FileRecords, record)
}

func (c *Crawler) excludedDir(name string) bool {
	return name == c.cfg.Crawl.CacheDir || strings.HasPrefix(name, config.HiddenPrefix)
}

func (c *Crawler) eligibleSource(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), c.cfg.Crawl.SourceExt)
}

func (c *Crawler) excludedSource(name string) bool {
	return strings.ToLower(name) == c.cfg.Crawl.ExcludedFile
}

func (c *Crawler) fileKind(name string) render.Kind {
	if c.eligibleSource(name) && !c.excludedSource(name) {
		return render.KindSourceFile
	}
	return render.KindFile
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
