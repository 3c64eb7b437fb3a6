package ports

// InventoryMetrics puerto de salida para métricas del motor de inventario.
type InventoryMetrics interface {
	// MovementRecorded un asiento del libro (IN u OUT) con sus unidades.
	MovementRecorded(movementType string, units int)
	// WithdrawalPlanned lotes distintos tocados por una línea de salida.
	WithdrawalPlanned(batches int)
	// Rejected operación rechazada por una regla de negocio (reason = tipo de error).
	Rejected(reason string)
}

// NopMetrics descarta todo.
type NopMetrics struct{}

func (NopMetrics) MovementRecorded(string, int) {}
func (NopMetrics) WithdrawalPlanned(int)        {}
func (NopMetrics) Rejected(string)              {}
