// Package metrics exposes navigation counters and gauges for Prometheus.
package metrics

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/grovetools/padnav/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "padnav"

// Metrics holds the navigator's collectors. A nil *Metrics records nothing.
type Metrics struct {
	Moves       *prometheus.CounterVec
	Activations *prometheus.CounterVec
	Cancels     *prometheus.CounterVec
	Rebuilds    *prometheus.CounterVec
	Buttons     *prometheus.CounterVec
	Elements    prometheus.Gauge
	Devices     prometheus.Gauge
}

// New registers the collectors with reg. A nil reg uses a private registry,
// which lets tests create as many navigators as they like.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		Moves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "focus",
			Name:      "moves_total",
			Help:      "Directional focus moves by direction and whether they wrapped.",
		}, []string{"direction", "wrapped"}),
		Activations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "focus",
			Name:      "activations_total",
			Help:      "Element activations by action.",
		}, []string{"action"}),
		Cancels: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "focus",
			Name:      "cancels_total",
			Help:      "Cancel requests by outcome.",
		}, []string{"outcome"}),
		Rebuilds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "rebuilds_total",
			Help:      "Registry rebuilds by reason.",
		}, []string{"reason"}),
		Buttons: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "buttons_total",
			Help:      "Logical button presses, repeats excluded.",
		}, []string{"button"}),
		Elements: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "elements",
			Help:      "Focusable elements in the registry.",
		}),
		Devices: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "devices_connected",
			Help:      "Connected input devices.",
		}),
	}
}

func (m *Metrics) Move(direction string, wrapped bool) {
	if m == nil {
		return
	}
	w := "false"
	if wrapped {
		w = "true"
	}
	m.Moves.WithLabelValues(direction, w).Inc()
}

func (m *Metrics) Activate(action string) {
	if m == nil {
		return
	}
	m.Activations.WithLabelValues(action).Inc()
}

func (m *Metrics) Cancel(outcome string) {
	if m == nil {
		return
	}
	m.Cancels.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Button(name string) {
	if m == nil {
		return
	}
	m.Buttons.WithLabelValues(name).Inc()
}

// Rebuild counts a rebuild and records the new registry size.
func (m *Metrics) Rebuild(reason string, size int) {
	if m == nil {
		return
	}
	m.Rebuilds.WithLabelValues(reason).Inc()
	m.Elements.Set(float64(size))
}

func (m *Metrics) SetDevices(n int) {
	if m == nil {
		return
	}
	m.Devices.Set(float64(n))
}

// Handler serves the collectors registered with g.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// ListenAndServe serves /metrics for g on addr until ctx is done.
func ListenAndServe(ctx context.Context, addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.ServerFailed(addr, err)
	}
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return errors.ServerFailed(addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.ServerFailed(addr, err)
		}
		return nil
	}
}
