package sinklog

import (
	"sort"
)

// Dispatcher routes a record to every sink mapped to its level. The mapping is
// fixed at construction so Dispatch needs no locking.
type Dispatcher struct {
	routes map[Level][]Sink
}

// NewDispatcher copies routes, dropping nil sinks and empty levels
func NewDispatcher(routes map[Level][]Sink) *Dispatcher {
	d := &Dispatcher{routes: make(map[Level][]Sink, len(routes))}
	for level, sinks := range routes {
		var kept []Sink
		for _, s := range sinks {
			if s != nil {
				kept = append(kept, s)
			}
		}
		if len(kept) > 0 {
			d.routes[level] = kept
		}
	}
	return d
}

// Dispatch writes rec to each sink of its level in registration order. A failing
// or panicking sink does not stop the others; their errors are combined.
// A level with no sinks is a silent drop.
func (d *Dispatcher) Dispatch(rec Record) error {
	var err error
	for _, s := range d.routes[rec.Level] {
		if writeErr := writeSafely(s, rec); writeErr != nil {
			err = combineErrors(err, writeErr)
		}
	}
	return err
}

// Sinks returns a copy of the sinks registered for level
func (d *Dispatcher) Sinks(level Level) []Sink {
	sinks := d.routes[level]
	if len(sinks) == 0 {
		return nil
	}
	out := make([]Sink, len(sinks))
	copy(out, sinks)
	return out
}

// Levels returns the levels that have at least one sink, in ascending priority
func (d *Dispatcher) Levels() []Level {
	levels := make([]Level, 0, len(d.routes))
	for level := range d.routes {
		levels = append(levels, level)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })
	return levels
}

// Close closes every distinct sink once, even when it serves several levels
func (d *Dispatcher) Close() error {
	var err error
	seen := make(map[Sink]struct{})
	for _, level := range d.Levels() {
		for _, s := range d.routes[level] {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			if closeErr := closeSafely(s); closeErr != nil {
				err = combineErrors(err, closeErr)
			}
		}
	}
	return err
}
