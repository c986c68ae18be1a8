package types

import (
	"errors"
	"time"
)

// EpisodeRecord summarizes one episode of an agent's instance
type EpisodeRecord struct {
	Agent      string  `json:"agent"`
	Instance   int     `json:"instance"`
	Episode    int     `json:"episode"`
	Return     float64 `json:"return"`
	Steps      int     `json:"steps"`
	Terminated bool    `json:"terminated"`
}

// Recorder receives the results of an experiment. Persisting and
// visualizing them is up to the implementation.
type Recorder interface {
	// Record an episode. Episodes of an instance are recorded once the
	// instance completes successfully.
	Record(EpisodeRecord) error
	// RecordTime records the time an agent spent learning over all instances
	RecordTime(agent string, elapsed time.Duration) error
	// Finalize is called once after all agents ran
	Finalize() error
}

// InstanceObserver is an optional Recorder extension that is given read
// access to the agent at the end of each instance, before the agent is reset
type InstanceObserver interface {
	EndOfInstance(agent Agent, instance int)
}

// MultiRecorder forwards to all the recorders it contains
type MultiRecorder []Recorder

var _ Recorder = MultiRecorder{}
var _ InstanceObserver = MultiRecorder{}

func (m MultiRecorder) Record(r EpisodeRecord) error {
	var errs []error
	for _, rec := range m {
		if err := rec.Record(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiRecorder) RecordTime(agent string, elapsed time.Duration) error {
	var errs []error
	for _, rec := range m {
		if err := rec.RecordTime(agent, elapsed); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiRecorder) Finalize() error {
	var errs []error
	for _, rec := range m {
		if err := rec.Finalize(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiRecorder) EndOfInstance(agent Agent, instance int) {
	for _, rec := range m {
		if o, ok := rec.(InstanceObserver); ok {
			o.EndOfInstance(agent, instance)
		}
	}
}

// NoopRecorder discards everything
type NoopRecorder struct{}

var _ Recorder = NoopRecorder{}

func (NoopRecorder) Record(EpisodeRecord) error             { return nil }
func (NoopRecorder) RecordTime(string, time.Duration) error { return nil }
func (NoopRecorder) Finalize() error                        { return nil }
