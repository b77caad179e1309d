package reporting

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lox/blackjack-advisor/internal/fileutil"
)

// NullRecorder discards every trace. Used when the log_json ablation toggle
// is off.
type NullRecorder struct{}

func (NullRecorder) Record(HandTrace) error { return nil }
func (NullRecorder) Close() error           { return nil }

// NDJSONRecorder writes one JSON object per line, flushed after every
// record for crash durability, per the flight recorder's buffered-and-
// flushed-per-hand resource model.
type NDJSONRecorder struct {
	file *os.File
	w    *bufio.Writer
	enc  *json.Encoder
}

// NewNDJSONRecorder opens path for the duration of a simulation run. The
// caller must Close it on completion (including abnormal termination) so
// every preceding record is flushed.
func NewNDJSONRecorder(path string) (*NDJSONRecorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open flight recorder file: %w", err)
	}
	w := bufio.NewWriter(f)
	return &NDJSONRecorder{file: f, w: w, enc: json.NewEncoder(w)}, nil
}

func (r *NDJSONRecorder) Record(t HandTrace) error {
	if err := r.enc.Encode(t); err != nil {
		return fmt.Errorf("encode hand trace: %w", err)
	}
	return r.w.Flush()
}

func (r *NDJSONRecorder) Close() error {
	if err := r.w.Flush(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}

// TableSummaryWriter writes a human-readable tabular summary to stdout,
// mirroring the teacher lineage's simulator summary layout.
type TableSummaryWriter struct{}

func (TableSummaryWriter) Write(s Summary) error {
	fmt.Printf("hands:           %d\n", s.Hands)
	fmt.Printf("total wagered:   %.2f\n", s.TotalWagered)
	fmt.Printf("net profit:      %.2f\n", s.NetProfit)
	fmt.Printf("ev:              %.4f%%\n", s.EVPercent)
	fmt.Printf("std error:       %.4f\n", s.StdError)
	fmt.Printf("win rate:        %.4f\n", s.WinRate)
	fmt.Printf("average bet:     %.2f\n", s.AverageBet)
	fmt.Printf("max drawdown:    %.2f\n", s.MaxDrawdown)
	fmt.Printf("hands skipped:   %d\n", s.HandsSkipped)
	if s.DurationSeconds > 0 {
		fmt.Printf("duration:        %.2fs\n", s.DurationSeconds)
		fmt.Printf("hands/sec:       %.1f\n", s.HandsPerSecond)
	}
	return nil
}

// JSONSummaryWriter persists the Summary as JSON, written atomically so
// readers never observe a partial file.
type JSONSummaryWriter struct {
	Path string
}

func (w JSONSummaryWriter) Write(s Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	return fileutil.WriteFileAtomic(w.Path, data, 0o644)
}
