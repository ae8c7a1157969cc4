// Package logging routes the standard logger to stdout and an optional log file.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mwiater/abplay/internal/abtest"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init sends log output to console and, when logPath is set, appends it to
// that file as well. Calling Init again replaces the previous file.
func Init(logPath string, console io.Writer) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	if console != nil {
		writers = append(writers, console)
	}

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	if len(writers) == 0 {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

// Close releases the log file and restores stderr output.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

// LogEvaluation writes one line describing an evaluation request and its outcome.
func LogEvaluation(source string, in abtest.Input, res *abtest.Result, err error) {
	log.Println(buildEvaluationMessage(source, in, res, err))
}

func buildEvaluationMessage(source string, in abtest.Input, res *abtest.Result, err error) string {
	src := strings.ToUpper(strings.TrimSpace(source))
	if src == "" {
		src = "UNKNOWN"
	}
	parts := []string{fmt.Sprintf("[%s]", src)}
	parts = append(parts, fmt.Sprintf("a=%d/%d", in.ConversionsA, in.SampleSizeA))
	parts = append(parts, fmt.Sprintf("b=%d/%d", in.ConversionsB, in.SampleSizeB))
	parts = append(parts, fmt.Sprintf("alpha=%g", in.Alpha))
	parts = append(parts, fmt.Sprintf("alternative=%s", in.Alternative))
	switch {
	case err != nil:
		parts = append(parts, fmt.Sprintf("error=%s", formatPayload(err.Error())))
	case res != nil:
		parts = append(parts, fmt.Sprintf("z=%.4f", res.ZScore))
		parts = append(parts, fmt.Sprintf("p=%.4g", res.PValue))
		parts = append(parts, fmt.Sprintf("significant=%t", res.IsSignificant))
	}
	return strings.Join(parts, " ")
}

// LogPayload logs an arbitrary payload under a label, JSON-encoding structs.
func LogPayload(label string, payload any) {
	log.Printf("%s payload=%s", strings.TrimSpace(label), formatPayload(payload))
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
