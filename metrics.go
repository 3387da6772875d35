package machina

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsObserver counts simulator lifecycle events on Prometheus
// metrics. One observer instance may be shared by several simulators of
// the same machine.
type MetricsObserver struct {
	BaseObserver

	steps       prometheus.Counter
	transitions *prometheus.CounterVec
	guards      *prometheus.CounterVec
	rejected    prometheus.Counter
	blocked     *prometheus.CounterVec
	evalErrors  *prometheus.CounterVec
	halts       prometheus.Counter
}

// NewMetricsObserver registers the simulator metrics on the given
// registerer and returns an observer feeding them.
func NewMetricsObserver(reg prometheus.Registerer) *MetricsObserver {
	factory := promauto.With(reg)

	return &MetricsObserver{
		steps: factory.NewCounter(prometheus.CounterOpts{
			Name: "machina_steps_total",
			Help: "Total simulation steps executed.",
		}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "machina_transitions_total",
			Help: "Total transitions fired, by source and target state.",
		}, []string{"from", "to"}),
		guards: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "machina_guard_evaluations_total",
			Help: "Total guard evaluations, by outcome.",
		}, []string{"result"}),
		rejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "machina_events_rejected_total",
			Help: "Total events that matched no eligible transition.",
		}),
		blocked: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "machina_actions_blocked_total",
			Help: "Total authored code snippets rejected by the safety screen.",
		}, []string{"kind"}),
		evalErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "machina_evaluation_errors_total",
			Help: "Total authored code evaluation failures.",
		}, []string{"kind"}),
		halts: factory.NewCounter(prometheus.CounterOpts{
			Name: "machina_halts_total",
			Help: "Total simulation halts.",
		}),
	}
}

func (o *MetricsObserver) OnTransition(from, to, event string) {
	o.transitions.WithLabelValues(from, to).Inc()
}

func (o *MetricsObserver) OnGuardEvaluation(from, to, event, condition string, result bool) {
	if result {
		o.guards.WithLabelValues("true").Inc()
	} else {
		o.guards.WithLabelValues("false").Inc()
	}
}

func (o *MetricsObserver) OnEventRejected(event, reason string) {
	o.rejected.Inc()
}

func (o *MetricsObserver) OnActionBlocked(kind EvalKind, state, reason string) {
	o.blocked.WithLabelValues(string(kind)).Inc()
}

func (o *MetricsObserver) OnEvaluationError(kind EvalKind, state string, err error) {
	o.evalErrors.WithLabelValues(string(kind)).Inc()
}

func (o *MetricsObserver) OnStepCompleted(state string, log []string) {
	o.steps.Inc()
}

func (o *MetricsObserver) OnHalted(state, reason string) {
	o.halts.Inc()
}
