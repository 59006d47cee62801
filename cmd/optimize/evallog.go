package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"
)

// evalLog records every evaluation as a CSV row and tracks the best
// candidate and timing for progress reports.
type evalLog struct {
	w      *csv.Writer
	params *ParamVector
	total  int     // evaluation budget
	dt     float64 // tick length, to report survival in seconds
	now    func() time.Time

	start       time.Time
	count       int
	bestFitness float64
	bestParams  []float64
}

// progress is the state after one evaluation.
type progress struct {
	Eval        int
	Total       int
	SurvivedSec float64
	Quality     float64
	BestFitness float64
	Elapsed     time.Duration
	ETA         time.Duration
}

// LogValue implements slog.LogValuer.
func (p progress) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("eval", p.Eval),
		slog.Int("total", p.Total),
		slog.Float64("survived_sec", p.SurvivedSec),
		slog.Float64("quality", p.Quality),
		slog.Float64("best_fitness", p.BestFitness),
		slog.String("elapsed", formatDuration(p.Elapsed)),
		slog.String("eta", formatDuration(p.ETA)),
	)
}

// newEvalLog writes the CSV header (eval, fitness, one column per
// parameter) to w.
func newEvalLog(w io.Writer, params *ParamVector, total int, dt float64, now func() time.Time) (*evalLog, error) {
	l := &evalLog{
		w:      csv.NewWriter(w),
		params: params,
		total:  total,
		dt:     dt,
		now:    now,
		start:  now(),
	}
	header := []string{"eval", "fitness"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	if err := l.w.Write(header); err != nil {
		return nil, err
	}
	l.w.Flush()
	return l, l.w.Error()
}

// record logs the evaluation of the raw parameter vector. The row holds
// the clamped values, which are the ones the simulation ran with.
func (l *evalLog) record(raw []float64, fitness, quality float64) (progress, error) {
	l.count++
	clamped := l.params.Clamp(raw)
	if l.bestParams == nil || fitness < l.bestFitness {
		l.bestFitness = fitness
		l.bestParams = clamped
	}

	row := []string{strconv.Itoa(l.count), strconv.FormatFloat(fitness, 'f', 6, 64)}
	for _, v := range clamped {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	if err := l.w.Write(row); err != nil {
		return progress{}, err
	}
	l.w.Flush()

	elapsed := l.now().Sub(l.start)
	perEval := elapsed / time.Duration(l.count)
	return progress{
		Eval:        l.count,
		Total:       l.total,
		SurvivedSec: survivalTicks(fitness, quality) * l.dt,
		Quality:     quality,
		BestFitness: l.bestFitness,
		Elapsed:     elapsed,
		ETA:         time.Duration(max(l.total-l.count, 0)) * perEval,
	}, l.w.Error()
}

// best returns the best clamped parameters seen so far, nil before the
// first evaluation.
func (l *evalLog) best() ([]float64, float64) {
	return l.bestParams, l.bestFitness
}

// survivalTicks inverts computeFitness.
func survivalTicks(fitness, quality float64) float64 {
	return -fitness / (1 + 0.2*quality)
}

// formatDuration formats d as 1h02m03s, or 2m03s below an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
