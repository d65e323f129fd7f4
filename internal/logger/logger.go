package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

type implLogger struct {
	logger *log.Logger
	out    io.Writer
	level  string
	format string
}

// New creates a new text Logger writing to stdout
func New(level string) Logger {
	return NewWithOutput(level, "text", os.Stdout)
}

// NewWithOutput creates a Logger with an explicit format ("text" or "json") and writer
func NewWithOutput(level, format string, out io.Writer) Logger {
	return &implLogger{
		logger: log.New(out, "", log.LstdFlags),
		out:    out,
		level:  strings.ToLower(level),
		format: strings.ToLower(format),
	}
}

// Nop returns a Logger that discards everything
func Nop() Logger {
	return NewWithOutput("error", "text", io.Discard)
}

func (l *implLogger) shouldLog(level string) bool {
	levels := map[string]int{
		"debug": 0,
		"info":  1,
		"warn":  2,
		"error": 3,
	}

	currentLevel, ok := levels[l.level]
	if !ok {
		currentLevel = 1 // default to info
	}

	targetLevel, ok := levels[level]
	if !ok {
		return true
	}

	return targetLevel >= currentLevel
}

func (l *implLogger) write(level, msg string, args ...interface{}) {
	if !l.shouldLog(level) {
		return
	}

	if l.format == "json" {
		line, err := json.Marshal(map[string]string{
			"time":  time.Now().Format(time.RFC3339),
			"level": level,
			"msg":   fmt.Sprintf(msg, args...),
		})
		if err == nil {
			fmt.Fprintln(l.out, string(line))
			return
		}
	}

	l.logger.Printf("["+strings.ToUpper(level)+"] "+msg, args...)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.write("debug", msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.write("info", msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.write("warn", msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.write("error", msg, args...)
}
