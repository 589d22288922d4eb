package diag

import (
	"fmt"
	"strings"
)

// Severity defines the importance of a diagnostic. Larger is more severe.
type Severity uint8

const (
	SevDebug5 Severity = iota
	SevDebug4
	SevDebug3
	SevDebug2
	// SevDebug is the first debug tier (DEBUG1).
	SevDebug
	// SevInfo is for informational diagnostics.
	SevInfo
	// SevWarning is for degraded analysis and model inconsistencies.
	SevWarning
	// SevError is for violations; every one is counted.
	SevError
	// SevFatal stops the run.
	SevFatal
)

func (s Severity) String() string {
	switch s {
	case SevDebug5:
		return "DEBUG5"
	case SevDebug4:
		return "DEBUG4"
	case SevDebug3:
		return "DEBUG3"
	case SevDebug2:
		return "DEBUG2"
	case SevDebug:
		return "DEBUG"
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	case SevFatal:
		return "FATAL"
	}
	return "UNKNOWN"
}

// IsError reports whether diagnostics of this severity count as errors.
func (s Severity) IsError() bool { return s >= SevError }

// ParseSeverity parses a level name as accepted by --level.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG5":
		return SevDebug5, nil
	case "DEBUG4":
		return SevDebug4, nil
	case "DEBUG3":
		return SevDebug3, nil
	case "DEBUG2":
		return SevDebug2, nil
	case "DEBUG", "DEBUG1":
		return SevDebug, nil
	case "INFO":
		return SevInfo, nil
	case "WARNING", "WARN":
		return SevWarning, nil
	case "ERROR":
		return SevError, nil
	case "FATAL":
		return SevFatal, nil
	}
	return SevInfo, fmt.Errorf("unknown severity level %q", s)
}
