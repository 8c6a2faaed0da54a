// FILE: lixenwraith/chanlog/utility.go
package chanlog

import (
	"fmt"
	"os"
	"strings"
)

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "chanlog: ") {
		format = "chanlog: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// ParseLevel converts a level label to its Level, case-insensitive.
func ParseLevel(levelStr string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "ERROR":
		return LevelError, nil
	case "WARNING", "WARN":
		return LevelWarning, nil
	case "INFO":
		return LevelInfo, nil
	case "CLIENT":
		return LevelClient, nil
	case "SERVER":
		return LevelServer, nil
	default:
		return 0, fmtErrorf("invalid level string: '%s' (use error, warning, info, client, server)", levelStr)
	}
}

// LevelFromID resolves the numeric identifier of a level
func LevelFromID(id int) (Level, bool) {
	for _, lv := range Levels {
		if int(lv) == id {
			return lv, true
		}
	}
	return 0, false
}

// internalLog writes library diagnostics to stderr when debug is enabled
func internalLog(debug bool, format string, args ...any) {
	if !debug {
		return
	}

	if !strings.HasPrefix(format, "chanlog: ") {
		format = "chanlog: " + format
	}

	fmt.Fprintf(os.Stderr, format, args...)
}

// errorDetail renders err for a diagnostic line only in debug mode
func errorDetail(debug bool, err error) string {
	if !debug || err == nil {
		return ""
	}
	return " (" + err.Error() + ")"
}
