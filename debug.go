package tilebatch

import (
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

var (
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "tilebatch",
		Level:  log.InfoLevel,
	})

	// globalDebug enables per-frame upload stats and placeholder warnings.
	globalDebug atomic.Bool
)

// SetLogger replaces the package logger. A nil logger is ignored.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// Logger returns the package logger.
func Logger() *log.Logger { return logger }

// SetDebugMode toggles debug mode. When enabled the logger level is raised to
// Debug and every Render logs its upload stats.
func SetDebugMode(enabled bool) {
	globalDebug.Store(enabled)
	if enabled {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
}

// DebugMode reports whether debug mode is on.
func DebugMode() bool { return globalDebug.Load() }

// UploadStats reports what a single UploadDirty call pushed to the backend.
type UploadStats struct {
	Sprites int // dirty sprites flushed
	Runs    int // contiguous index runs
	Writes  int // backend WriteBuffer calls (Runs * 3 on success)
	Floats  int // float32 values written across all buffers
}

// FrameStats accumulates upload and draw metrics over one frame.
type FrameStats struct {
	Frame     uint64
	Batches   int
	DrawCalls int
	Vertices  int
	Upload    UploadStats
	Elapsed   time.Duration
}

func (s *FrameStats) addUpload(u UploadStats) {
	s.Upload.Sprites += u.Sprites
	s.Upload.Runs += u.Runs
	s.Upload.Writes += u.Writes
	s.Upload.Floats += u.Floats
}

// debugLog prints frame stats when debug mode is enabled.
func (s FrameStats) debugLog() {
	if !globalDebug.Load() {
		return
	}
	logger.Debug("frame",
		"n", s.Frame,
		"batches", s.Batches,
		"draws", s.DrawCalls,
		"vertices", s.Vertices,
		"dirty", s.Upload.Sprites,
		"runs", s.Upload.Runs,
		"writes", s.Upload.Writes,
		"elapsed", s.Elapsed)
}
