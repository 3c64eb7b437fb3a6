// Package metrics expone contadores Prometheus del motor de inventario.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/gestion-stock-api/internal/application/ports"
)

var _ ports.InventoryMetrics = (*Recorder)(nil)

const namespace = "gestion_stock"

// Recorder implementa ports.InventoryMetrics sobre colectores Prometheus.
type Recorder struct {
	movements  *prometheus.CounterVec
	units      *prometheus.CounterVec
	rejections *prometheus.CounterVec
	batches    prometheus.Histogram
}

// NewRegistry registro propio con los colectores de proceso y runtime de Go.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// NewRecorder registra los colectores en reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_total",
			Help:      "Asientos registrados en el libro de movimientos, por tipo.",
		}, []string{"type"}),
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_total",
			Help:      "Unidades que entraron o salieron del stock, por tipo.",
		}, []string{"type"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Operaciones de inventario rechazadas, por motivo.",
		}, []string{"reason"}),
		batches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "withdrawal_batches",
			Help:      "Lotes consumidos por cada línea de salida FIFO.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13},
		}),
	}
	reg.MustRegister(r.movements, r.units, r.rejections, r.batches)
	return r
}

// MovementRecorded cuenta un asiento y sus unidades.
func (r *Recorder) MovementRecorded(movementType string, units int) {
	if r == nil {
		return
	}
	r.movements.WithLabelValues(movementType).Inc()
	if units > 0 {
		r.units.WithLabelValues(movementType).Add(float64(units))
	}
}

// WithdrawalPlanned observa cuántos lotes tocó una línea.
func (r *Recorder) WithdrawalPlanned(batches int) {
	if r == nil {
		return
	}
	r.batches.Observe(float64(batches))
}

// Rejected cuenta un rechazo por motivo.
func (r *Recorder) Rejected(reason string) {
	if r == nil {
		return
	}
	r.rejections.WithLabelValues(reason).Inc()
}
