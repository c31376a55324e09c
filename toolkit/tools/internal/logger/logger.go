// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

// Package logger provides the shared logrus logger used by all tools in
// this repository.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Log is the shared logger instance. Binaries must call Init or
// InitBestEffort before using it.
var Log = logrus.New()

const (
	LevelsFlag         = "log-level"
	LevelsHelp         = "Minimum log level to output."
	LevelsPlaceholder  = "(panic|fatal|error|warn|info|debug|trace)"
	FileFlag           = "log-file"
	FileFlagHelp       = "Path of the file to write logs to, in addition to stderr."
	ColorFlag          = "log-color"
	ColorFlagHelp      = "Control colored output on stderr."
	ColorsPlaceholder  = "(always|auto|never)"
	defaultLogLevel    = logrus.InfoLevel
	defaultLogFileMode = os.FileMode(0o644)
)

const (
	colorAlways = "always"
	colorAuto   = "auto"
	colorNever  = "never"
)

type LogFlags struct {
	LogColor *string
	LogFile  *string
	LogLevel *string
}

// Levels returns the accepted values for the log level flag.
func Levels() []string {
	levels := []string(nil)
	for _, level := range logrus.AllLevels {
		levels = append(levels, level.String())
	}
	return levels
}

// Colors returns the accepted values for the log color flag.
func Colors() []string {
	return []string{colorAlways, colorAuto, colorNever}
}

// Init initializes the shared logger from the parsed CLI flags.
func Init(flags *LogFlags) error {
	level := defaultLogLevel
	if flags.LogLevel != nil && *flags.LogLevel != "" {
		parsedLevel, err := logrus.ParseLevel(*flags.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level (%s):\n%w", *flags.LogLevel, err)
		}
		level = parsedLevel
	}

	useColor := stderrIsTerminal()
	if flags.LogColor != nil {
		switch *flags.LogColor {
		case colorAlways:
			useColor = true
		case colorNever:
			useColor = false
		case colorAuto, "":

		default:
			return fmt.Errorf("invalid log color value (%s)", *flags.LogColor)
		}
	}

	Log.SetLevel(level)
	Log.SetOutput(os.Stderr)
	Log.SetFormatter(newStderrFormatter(useColor))

	if flags.LogFile != nil && *flags.LogFile != "" {
		logFile, err := os.OpenFile(*flags.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, defaultLogFileMode)
		if err != nil {
			return fmt.Errorf("failed to open log file (%s):\n%w", *flags.LogFile, err)
		}

		Log.AddHook(&fileLogHook{
			file:      logFile,
			formatter: &logrus.TextFormatter{DisableColors: true, FullTimestamp: true},
		})
	}

	return nil
}

// InitBestEffort initializes the shared logger and falls back to stderr-only
// defaults if the flags cannot be honored.
func InitBestEffort(flags *LogFlags) {
	err := Init(flags)
	if err != nil {
		InitStderrLog()
		Log.Warnf("Failed to fully initialize logger: %v", err)
	}
}

// InitStderrLog initializes the shared logger with stderr-only defaults.
// Intended for tests and tools without log flags.
func InitStderrLog() {
	Log.SetLevel(defaultLogLevel)
	Log.SetOutput(os.Stderr)
	Log.SetFormatter(newStderrFormatter(stderrIsTerminal()))
}

func stderrIsTerminal() bool {
	fileInfo, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

type stderrFormatter struct {
	levelColors map[logrus.Level]*color.Color
}

func newStderrFormatter(useColor bool) *stderrFormatter {
	formatter := &stderrFormatter{}
	if useColor {
		formatter.levelColors = map[logrus.Level]*color.Color{
			logrus.PanicLevel: color.New(color.FgRed, color.Bold),
			logrus.FatalLevel: color.New(color.FgRed, color.Bold),
			logrus.ErrorLevel: color.New(color.FgRed),
			logrus.WarnLevel:  color.New(color.FgYellow),
			logrus.InfoLevel:  color.New(color.FgCyan),
			logrus.DebugLevel: color.New(color.FgWhite),
			logrus.TraceLevel: color.New(color.FgWhite),
		}
	}
	return formatter
}

func (f *stderrFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	timestamp := entry.Time.Format("2006-01-02T15:04:05Z07:00")
	level := strings.ToUpper(entry.Level.String())

	line := fmt.Sprintf("[%s] [%s] %s\n", timestamp, level, entry.Message)

	if levelColor, ok := f.levelColors[entry.Level]; ok {
		line = levelColor.Sprint(line)
	}

	return []byte(line), nil
}

type fileLogHook struct {
	file      *os.File
	formatter logrus.Formatter
}

func (h *fileLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fileLogHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	_, err = io.Copy(h.file, strings.NewReader(string(line)))
	return err
}
