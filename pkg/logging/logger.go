package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ANSI color codes
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Gray    = "\033[90m"

	BrightRed     = "\033[91m"
	BrightYellow  = "\033[93m"
	BrightBlue    = "\033[94m"
	BrightMagenta = "\033[95m"
	BrightCyan    = "\033[96m"
	BrightWhite   = "\033[97m"
)

// Log output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// ColoredLogger wraps zap.Logger with colored output
type ColoredLogger struct {
	*zap.Logger
	base         *zap.Logger
	direct       *zap.Logger // Component* helpers; tags are added per call
	enableColors bool
	json         bool
	runID        string
}

// Component represents different parts of the system for color coding
type Component string

const (
	ComponentExporter Component = "EXPORTER"
	ComponentConfig   Component = "CONFIG"
	ComponentJournal  Component = "JOURNAL"
	ComponentTail     Component = "TAIL"
)

// Options configures NewColoredLogger.
type Options struct {
	// Level is one of debug, info, warn, error, critical. Empty means info.
	Level string
	// Format is FormatConsole or FormatJSON. Empty means console.
	Format string
	// Output receives log lines. Nil means os.Stderr; stdout carries exported entries.
	Output io.Writer
	// Colors forces ANSI colors on or off. Nil auto-detects a terminal on Output.
	Colors *bool
}

// getComponentColor returns the color for a specific component
func getComponentColor(component Component) string {
	switch component {
	case ComponentExporter:
		return BrightBlue
	case ComponentConfig:
		return Yellow
	case ComponentJournal:
		return BrightMagenta
	case ComponentTail:
		return BrightCyan
	default:
		return White
	}
}

// getLevelColor returns the color for a log level
func getLevelColor(level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel:
		return Gray
	case zapcore.InfoLevel:
		return BrightWhite
	case zapcore.WarnLevel:
		return BrightYellow
	case zapcore.ErrorLevel:
		return BrightRed
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return Red
	default:
		return White
	}
}

// ParseLevel maps a case-insensitive level name onto a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error", "critical":
		// critical is accepted from older deployments and shows errors only.
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// coloredConsoleEncoder creates a custom encoder with colors
func coloredConsoleEncoder(enableColors bool) zapcore.Encoder {
	config := zap.NewDevelopmentEncoderConfig()

	// Ultra-short timestamp: HH:MM:SS
	config.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		timeStr := t.Format("15:04:05")
		if enableColors {
			enc.AppendString(fmt.Sprintf("%s%s%s", Dim, timeStr, Reset))
		} else {
			enc.AppendString(timeStr)
		}
	}

	// Single letter level: D, I, W, E
	config.EncodeLevel = func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		levelMap := map[zapcore.Level]string{
			zapcore.DebugLevel: "D",
			zapcore.InfoLevel:  "I",
			zapcore.WarnLevel:  "W",
			zapcore.ErrorLevel: "E",
		}
		levelStr := levelMap[level]
		if levelStr == "" {
			levelStr = "?"
		}
		if enableColors {
			enc.AppendString(fmt.Sprintf("%s%s%s%s", getLevelColor(level), Bold, levelStr, Reset))
		} else {
			enc.AppendString(levelStr)
		}
	}

	// Just filename, no line number
	config.EncodeCaller = func(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		file := caller.File
		if idx := strings.LastIndex(file, "/"); idx >= 0 {
			file = file[idx+1:]
		}
		file = strings.TrimSuffix(file, ".go")
		if enableColors {
			enc.AppendString(fmt.Sprintf("%s%s%s", Dim, file, Reset))
		} else {
			enc.AppendString(file)
		}
	}

	return zapcore.NewConsoleEncoder(config)
}

func jsonEncoder() zapcore.Encoder {
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(config)
}

// detectColors reports whether w is a terminal.
func detectColors(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewColoredLogger creates the process logger. The embedded Logger writes as
// component. Every logger carries a fresh run_id so lines from one run can be
// grouped after a supervisor restart.
func NewColoredLogger(component Component, opts Options) (*ColoredLogger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	enableColors := false
	var encoder zapcore.Encoder
	switch opts.Format {
	case "", FormatConsole:
		if opts.Colors != nil {
			enableColors = *opts.Colors
		} else {
			enableColors = detectColors(out)
		}
		encoder = coloredConsoleEncoder(enableColors)
	case FormatJSON:
		encoder = jsonEncoder()
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(out), level)

	runID := uuid.NewString()
	base := zap.New(core, zap.AddCaller()).With(zap.String("run_id", runID))

	l := &ColoredLogger{
		base:         base,
		enableColors: enableColors,
		json:         opts.Format == FormatJSON,
		runID:        runID,
	}
	l.direct = base.WithOptions(zap.AddCallerSkip(1))
	l.Logger = l.For(component)
	return l, nil
}

// RunID returns the identifier attached to every line of this logger.
func (l *ColoredLogger) RunID() string {
	return l.runID
}

// For returns a logger for injection into a component. Console lines carry
// the component as a [TAG] message prefix, JSON lines as a component field.
func (l *ColoredLogger) For(component Component) *zap.Logger {
	if l.json {
		return l.base.With(zap.String("component", string(component)))
	}
	prefix := l.tag(component, "")
	return l.base.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return &taggedCore{Core: c, prefix: prefix}
	}))
}

// taggedCore prefixes every message written through it.
type taggedCore struct {
	zapcore.Core
	prefix string
}

func (c *taggedCore) With(fields []zapcore.Field) zapcore.Core {
	return &taggedCore{Core: c.Core.With(fields), prefix: c.prefix}
}

func (c *taggedCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *taggedCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	ent.Message = c.prefix + ent.Message
	return c.Core.Write(ent, fields)
}

func (l *ColoredLogger) tag(component Component, msg string) string {
	if l.json {
		return msg
	}
	if l.enableColors {
		return fmt.Sprintf("%s[%s]%s %s", getComponentColor(component), component, Reset, msg)
	}
	return fmt.Sprintf("[%s] %s", component, msg)
}

// fields names the component in JSON output, where there is no tag prefix.
func (l *ColoredLogger) fields(component Component, fields []zap.Field) []zap.Field {
	if !l.json {
		return fields
	}
	return append(fields, zap.String("component", string(component)))
}

// Component-specific logging methods
func (l *ColoredLogger) ComponentInfo(component Component, msg string, fields ...zap.Field) {
	l.direct.Info(l.tag(component, msg), l.fields(component, fields)...)
}

func (l *ColoredLogger) ComponentError(component Component, msg string, fields ...zap.Field) {
	l.direct.Error(l.tag(component, msg), l.fields(component, fields)...)
}

func (l *ColoredLogger) ComponentDebug(component Component, msg string, fields ...zap.Field) {
	l.direct.Debug(l.tag(component, msg), l.fields(component, fields)...)
}

// Close flushes buffered log output. Sync errors on terminals and pipes
// (EINVAL, ENOTTY) are expected and ignored.
func (l *ColoredLogger) Close() {
	_ = l.base.Sync()
}
