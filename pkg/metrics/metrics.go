// Package metrics exposes editor activity as prometheus series. A nil *Recorder
// is valid and records nothing.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	OutcomeOK     = "ok"
	OutcomeNoOp   = "noop"
	OutcomeFailed = "failed"

	OutcomeCommitted = "committed"
	OutcomeCancelled = "cancelled"
	OutcomeRejected  = "rejected"

	DirectionUndo = "undo"
	DirectionRedo = "redo"
)

// Recorder holds the editor's collectors.
type Recorder struct {
	commands *prometheus.CounterVec
	depth    prometheus.Gauge
	undo     *prometheus.CounterVec
	gestures *prometheus.CounterVec
}

// New builds the collectors and registers them on reg. A nil reg leaves them
// unregistered, which suits tests that read values directly.
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flowcanvas_commands_total",
			Help: "Commands executed, by command name and outcome",
		}, []string{"command", "outcome"}),
		depth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "flowcanvas_history_depth",
			Help: "Current number of undoable transactions",
		}),
		undo: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flowcanvas_undo_total",
			Help: "Undo and redo replays",
		}, []string{"direction"}),
		gestures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flowcanvas_gestures_total",
			Help: "Pointer gestures, by kind and how they ended",
		}, []string{"kind", "outcome"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{r.commands, r.depth, r.undo, r.gestures} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// MustNew is New that panics on registration failure.
func MustNew(reg prometheus.Registerer) *Recorder {
	r, err := New(reg)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Recorder) Command(name, outcome string) {
	if r == nil {
		return
	}
	r.commands.WithLabelValues(name, outcome).Inc()
}

func (r *Recorder) HistoryDepth(n int) {
	if r == nil {
		return
	}
	r.depth.Set(float64(n))
}

func (r *Recorder) Replay(direction string) {
	if r == nil {
		return
	}
	r.undo.WithLabelValues(direction).Inc()
}

func (r *Recorder) Gesture(kind, outcome string) {
	if r == nil {
		return
	}
	r.gestures.WithLabelValues(kind, outcome).Inc()
}

// Collectors returns the underlying collectors, for tests and custom registries.
func (r *Recorder) Collectors() (commands *prometheus.CounterVec, depth prometheus.Gauge, undo, gestures *prometheus.CounterVec) {
	return r.commands, r.depth, r.undo, r.gestures
}
