// Package metrics exposes device state as Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sweeney/pet-feeder/internal/logic"
)

// Metric names
const (
	namespace = "pet_feeder"

	MetricNameTransitions    = "transitions_total"
	MetricNameState          = "state"
	MetricNameElapsedSeconds = "elapsed_seconds"
	MetricNameLED            = "led"
	MetricNameGPIOErrors     = "gpio_errors_total"
	MetricNamePublishErrors  = "publish_errors_total"
)

// Metric help text
const (
	HelpTextTransitions    = "Total number of feeding state transitions by trigger"
	HelpTextState          = "1 for the current satiety and period, 0 otherwise"
	HelpTextElapsedSeconds = "Seconds accumulated since the last transition"
	HelpTextLED            = "Current LED level (1 = lit)"
	HelpTextGPIOErrors     = "Total number of GPIO read or write errors"
	HelpTextPublishErrors  = "Total number of failed MQTT publishes"
)

// Label names
const (
	LabelTrigger = "trigger"
	LabelSatiety = "satiety"
	LabelPeriod  = "period"
	LabelLED     = "led"
	LabelOp      = "op"
)

// Metrics holds every collector the daemon updates.
type Metrics struct {
	Transitions    *prometheus.CounterVec
	State          *prometheus.GaugeVec
	ElapsedSeconds prometheus.Gauge
	LED            *prometheus.GaugeVec
	GPIOErrors     *prometheus.CounterVec
	PublishErrors  prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Transitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      MetricNameTransitions,
				Help:      HelpTextTransitions,
			},
			[]string{LabelTrigger},
		),
		State: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      MetricNameState,
				Help:      HelpTextState,
			},
			[]string{LabelSatiety, LabelPeriod},
		),
		ElapsedSeconds: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      MetricNameElapsedSeconds,
				Help:      HelpTextElapsedSeconds,
			},
		),
		LED: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      MetricNameLED,
				Help:      HelpTextLED,
			},
			[]string{LabelLED},
		),
		GPIOErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      MetricNameGPIOErrors,
				Help:      HelpTextGPIOErrors,
			},
			[]string{LabelOp},
		),
		PublishErrors: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      MetricNamePublishErrors,
				Help:      HelpTextPublishErrors,
			},
		),
	}
}

// ObserveEvent counts a transition.
func (m *Metrics) ObserveEvent(e logic.Event) {
	m.Transitions.WithLabelValues(string(e.Trigger)).Inc()
}

// ObserveState sets the state and elapsed gauges.
func (m *Metrics) ObserveState(s logic.State, e logic.Elapsed) {
	for _, st := range logic.AllStates {
		v := 0.0
		if st == s {
			v = 1
		}
		m.State.WithLabelValues(string(st.Satiety()), string(st.Period())).Set(v)
	}
	m.ElapsedSeconds.Set(float64(e.Hours*3600 + e.Minutes*60 + e.Seconds))
}

// ObserveIndicators sets the LED gauges.
func (m *Metrics) ObserveIndicators(ind logic.Indicators) {
	for name, on := range map[string]bool{
		"am_fed":    ind.AMFed,
		"am_hungry": ind.AMHungry,
		"pm_fed":    ind.PMFed,
		"pm_hungry": ind.PMHungry,
	} {
		v := 0.0
		if on {
			v = 1
		}
		m.LED.WithLabelValues(name).Set(v)
	}
}
