package debug

import (
	"log"
	"os"
)

var (
	enabled = false
)

func init() {
	enabled = os.Getenv("DEBUG_DASHBOARD") == "true"
	if enabled {
		log.Println("🐛 Debug dashboard enabled")
	}
}

// IsEnabled reports whether the debug dashboard is enabled.
func IsEnabled() bool {
	return enabled
}

// LogInfo sends an info-level event to the dashboard.
func LogInfo(message string, metadata map[string]interface{}) {
	if !enabled {
		return
	}
	SendLog("bot", "info", message, metadata)
}

// LogWarn sends a warn-level event to the dashboard.
func LogWarn(message string, metadata map[string]interface{}) {
	if !enabled {
		return
	}
	SendLog("bot", "warn", message, metadata)
}

// LogError sends an error-level event to the dashboard.
func LogError(message string, metadata map[string]interface{}) {
	if !enabled {
		return
	}
	SendLog("bot", "error", message, metadata)
}
