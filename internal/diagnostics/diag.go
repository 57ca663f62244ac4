// Package diagnostics describes notable runtime events in a form the
// preview stream can forward as JSON.
package diagnostics

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Time           time.Time      `json:"time"`
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// Sink receives diagnostics. It must not block.
type Sink interface {
	Push(Diagnostic)
}

// Discard drops every diagnostic.
var Discard Sink = discard{}

type discard struct{}

func (discard) Push(Diagnostic) {}

// LifeReseed reports a reseed of the life region. reseeds counts every
// seed so far, the first included.
func LifeReseed(reason string, reseeds int) Diagnostic {
	d := Diagnostic{
		Time:     time.Now(),
		Severity: Info,
		Code:     "LIFE.RESEED",
		Summary:  "Life board reseeded: " + reason,
		Evidence: map[string]any{"reason": reason, "reseeds": reseeds},
	}
	if reason == "aged" {
		d.Detail = "board stayed active past its maximum age"
	}
	return d
}

func ModeChange(state string) Diagnostic {
	return Diagnostic{
		Time:     time.Now(),
		Severity: Info,
		Code:     "MODE.CHANGE",
		Summary:  "Mode is now " + state,
		Evidence: map[string]any{"mode": state},
	}
}

func SelfTestRunning(plan string) Diagnostic {
	return Diagnostic{Time: time.Now(), Severity: Info, Code: "TEST.RUNNING", Summary: "Running test", Detail: plan}
}

func SelfTestDone(plan string, steps int) Diagnostic {
	return Diagnostic{
		Time:     time.Now(),
		Severity: Info,
		Code:     "TEST.DONE",
		Summary:  "Test complete",
		Detail:   plan,
		Evidence: map[string]any{"steps": steps},
	}
}

func SelfTestUnknown(plan string) Diagnostic {
	return Diagnostic{
		Time: time.Now(), Severity: Warn, Code: "TEST.UNKNOWN", Summary: "Unknown test name",
		Evidence: map[string]any{"name": plan},
	}
}

// DriverFallback reports that the SPI display could not be opened and the
// console is used instead.
func DriverFallback(err error) Diagnostic {
	return Diagnostic{
		Time:     time.Now(),
		Severity: Warn,
		Code:     "DRIVER.FALLBACK",
		Summary:  "No SPI display, printing at the console",
		Detail:   fmt.Sprint(err),
		LikelyCauses: []string{
			"SPI is disabled in the boot config",
			"the process cannot open /dev/spidev*",
		},
		SuggestedFixes: []string{
			"enable SPI (raspi-config or dtparam=spi=on)",
			"run as a user in the spi group",
		},
	}
}

// Fault reports an error that stopped the engine.
func Fault(err error) Diagnostic {
	return Diagnostic{Time: time.Now(), Severity: Err, Code: "ENGINE.FAULT", Summary: "Engine stopped", Detail: err.Error()}
}

// Log writes diagnostics to the global zerolog logger.
var Log Sink = logSink{}

type logSink struct{}

func (logSink) Push(d Diagnostic) {
	lvl := zerolog.InfoLevel
	switch d.Severity {
	case Warn:
		lvl = zerolog.WarnLevel
	case Err:
		lvl = zerolog.ErrorLevel
	}
	ev := log.WithLevel(lvl).Str("code", d.Code)
	if d.Detail != "" {
		ev = ev.Str("detail", d.Detail)
	}
	ev.Msg(d.Summary)
}

// Multi pushes to every sink in order.
type Multi []Sink

func (m Multi) Push(d Diagnostic) {
	for _, s := range m {
		s.Push(d)
	}
}
