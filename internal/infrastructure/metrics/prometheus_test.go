package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gathered valor de la serie name con label=value (contador) o la cantidad de observaciones (histograma).
func gathered(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			if h := m.GetHistogram(); h != nil {
				return float64(h.GetSampleCount())
			}
			for _, l := range m.GetLabel() {
				if l.GetName() == label && l.GetValue() == value {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.MovementRecorded("OUT", 30)
	r.MovementRecorded("OUT", 20)
	r.MovementRecorded("IN", 100)
	r.Rejected("insufficient_stock")
	r.WithdrawalPlanned(2)

	assert.Equal(t, 2.0, gathered(t, reg, "gestion_stock_movements_total", "type", "OUT"))
	assert.Equal(t, 50.0, gathered(t, reg, "gestion_stock_units_total", "type", "OUT"))
	assert.Equal(t, 100.0, gathered(t, reg, "gestion_stock_units_total", "type", "IN"))
	assert.Equal(t, 1.0, gathered(t, reg, "gestion_stock_rejections_total", "reason", "insufficient_stock"))
	assert.Equal(t, 1.0, gathered(t, reg, "gestion_stock_withdrawal_batches", "", ""))
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.MovementRecorded("IN", 1)
		r.WithdrawalPlanned(1)
		r.Rejected("x")
	})
}
