// FILE: lixenwraith/chanlog/constant.go
package chanlog

import (
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/chanlog/formatter"
)

// Level is the severity of a channel message. Ordering is for display only,
// there is no minimum-level threshold.
type Level int

// Log level constants
const (
	LevelError   Level = -1
	LevelWarning Level = 0
	LevelInfo    Level = 1
	LevelClient  Level = 2
	LevelServer  Level = 3
)

// Levels lists every level in ascending order
var Levels = []Level{LevelError, LevelWarning, LevelInfo, LevelClient, LevelServer}

// String returns the level label used by the %level placeholder
func (lv Level) String() string {
	switch lv {
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARNING"
	case LevelInfo:
		return "INFO"
	case LevelClient:
		return "CLIENT"
	case LevelServer:
		return "SERVER"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(lv))
	}
}

// Rendering defaults
const (
	DefaultIndent     = 0
	DefaultIndentUnit = "\t"
	DefaultAMText     = "AM"
	DefaultPMText     = "PM"
)

// DefaultTemplate is the rendered line layout for new channels
var DefaultTemplate = "[" + formatter.Year.String() + ":" + formatter.Month.String() + ":" +
	formatter.WeekOfMonth.String() + ":" + formatter.DayOfMonth.String() + ":" +
	formatter.Hour12.String() + ":" + formatter.Minute.String() + ":" + formatter.Second.String() + " " +
	formatter.AMPM.String() + " - " + formatter.Level.String() + "] " + formatter.Prompt.String()

// Snapshot defaults
const (
	DefaultDirectory = "logs"
	logExtension     = ".log"
	zipExtension     = ".zip"
)

// DefaultFileName is the placeholder base name for snapshot files, YEAR-MONTH-DAY
var DefaultFileName = formatter.Year.String() + "-" + formatter.Month.String() + "-" + formatter.DayOfMonth.String()

// Line terminator appended by LogLine and between snapshot lines
const lineSeparator = "\n"

// fallbackNotice prefixes the replacement message written to the other sink
const fallbackNotice = "An error occurred while trying to log a message!:\n "

// Snapshot artifacts are sealed read-only
const (
	snapshotFileMode = os.FileMode(0644)
	sealedFileMode   = os.FileMode(0444)
	snapshotDirMode  = os.FileMode(0755)
)

// Timers
const (
	// Minimum wait time used while polling for goroutine exit
	minWaitTime = 10 * time.Millisecond
)
