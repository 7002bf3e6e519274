// Package logging builds the zerolog logger shared by every command.
//
// The interactive browser owns the terminal, so logs normally go to a
// rotating file; with no file configured they go to stderr instead.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects level, encoding and destination.
type Config struct {
	Level  string // trace|debug|info|warn|error
	Format string // console|json
	File   string // empty means stderr

	MaxSizeMB  int
	MaxBackups int
}

const (
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 3
)

// Result is a built logger plus the handle that must be closed on exit.
type Result struct {
	Logger    zerolog.Logger
	FilePath  string
	UsingFile bool
	closer    io.Closer
}

// Close releases the log file, if any.
func (r Result) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// New builds a logger from cfg. stderr receives output when cfg.File is
// empty or its directory cannot be created.
func New(cfg Config, stderr io.Writer) Result {
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	var (
		out    io.Writer = stderr
		res    Result
		toFile = cfg.File != ""
	)
	if toFile {
		if mkErr := os.MkdirAll(filepath.Dir(cfg.File), 0o700); mkErr != nil {
			toFile = false
		}
	}
	if toFile {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, defaultMaxSizeMB),
			MaxBackups: orDefault(cfg.MaxBackups, defaultMaxBackups),
		}
		out = lj
		res.closer = lj
		res.FilePath = cfg.File
		res.UsingFile = true
	}

	if !strings.EqualFold(cfg.Format, "json") {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    toFile,
		}
	}

	res.Logger = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	return res
}

// Component returns a child logger tagged with the component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
