package logx

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
)

// Init sets up apex with the line handler and a level taken from the
// FCSTRAT_LOG env variable.
func Init() {
	level := strings.ToUpper(os.Getenv("FCSTRAT_LOG"))
	if level == "" {
		level = "INFO"
	}
	log.SetHandler(&LineHandler{})
	log.SetLevelFromString(level)
}

// LineHandler formats log entries as single lines on stdout.
type LineHandler struct{}

// HandleLog implements the log.Handler interface.
func (h *LineHandler) HandleLog(e *log.Entry) error {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	level := strings.ToUpper(e.Level.String())
	fmt.Fprintf(os.Stdout, "%s %.1s %s\n", timestamp, level, e.Message)
	return nil
}
