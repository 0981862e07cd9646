package game

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"emoji-sim/internal/loop"
)

// RunLog summarizes one simulation run.
type RunLog struct {
	Timestamp     time.Time     `json:"timestamp"`
	Seed          int64         `json:"seed"`
	Width         int           `json:"width"`
	Height        int           `json:"height"`
	Ticks         int           `json:"ticks"`
	Duration      time.Duration `json:"duration_ns"`
	MaxPasses     int           `json:"max_passes"`
	Deferred      int           `json:"deferred_rows"`
	Waited        time.Duration `json:"waited_ns"`
	LastStep      time.Duration `json:"last_step_ns"`
	FinalEntities int           `json:"final_entities"`
	FinalRows     int           `json:"final_rows"`
	Error         string        `json:"error,omitempty"`
}

func (rl *RunLog) record(st loop.Stats) {
	rl.Ticks = st.Tick
	rl.MaxPasses = max(rl.MaxPasses, st.Passes)
	rl.Deferred += st.Deferred
	rl.Waited += st.Wait
	rl.LastStep = st.Step
}

// saveRunLog appends the run as a single JSON line to runs.jsonl.
// Errors are logged but never fail the run.
func saveRunLog(rl RunLog, logger *slog.Logger) {
	dir, err := runLogDir()
	if err != nil {
		logger.Warn("run log: cannot determine data dir", "error", err)
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("run log: cannot create data dir", "error", err)
		return
	}
	f, err := os.OpenFile(filepath.Join(dir, "runs.jsonl"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Warn("run log: cannot open file", "error", err)
		return
	}
	defer f.Close()
	data, err := json.Marshal(rl)
	if err != nil {
		logger.Warn("run log: cannot marshal JSON", "error", err)
		return
	}
	f.Write(append(data, '\n')) //nolint:errcheck
}

func runLogDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "emoji-sim"), nil
}
