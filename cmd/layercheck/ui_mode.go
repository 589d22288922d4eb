package main

import (
	"fmt"
	"os"
	"strings"
)

// progressMode is the value of "check --progress".
type progressMode int

const (
	progressOff progressMode = iota
	progressAuto
	progressOn
)

var progressModes = map[string]progressMode{
	"":     progressOff,
	"off":  progressOff,
	"auto": progressAuto,
	"on":   progressOn,
}

func parseProgressMode(value string) (progressMode, error) {
	mode, ok := progressModes[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return progressOff, fmt.Errorf("invalid --progress value %q (expected auto|on|off)", value)
	}
	return mode, nil
}

// enabled decides whether the progress view is shown. It renders on stderr,
// so auto follows stderr being a terminal.
func (m progressMode) enabled() bool {
	return m == progressOn || m == progressAuto && isTerminal(os.Stderr)
}
