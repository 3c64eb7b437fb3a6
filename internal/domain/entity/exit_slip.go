package entity

import (
	"time"

	"github.com/jhoicas/gestion-stock-api/internal/domain"
)

// Estados de un bon de salida.
const (
	ExitSlipStatusDraft     = "DRAFT"
	ExitSlipStatusValidated = "VALIDATED"
	ExitSlipStatusCancelled = "CANCELLED"
)

// Motivos de salida.
const (
	ExitReasonProduction  = "PRODUCTION"
	ExitReasonMaintenance = "MAINTENANCE"
	ExitReasonOther       = "OTHER"
)

// IsValidExitReason indica si r es un motivo conocido.
func IsValidExitReason(r string) bool {
	switch r {
	case ExitReasonProduction, ExitReasonMaintenance, ExitReasonOther:
		return true
	}
	return false
}

// ExitSlip solicitud de retiro de stock hacia un taller.
type ExitSlip struct {
	ID          string
	Number      string // único
	ExitDate    time.Time
	Workshop    string // taller destino
	Reason      string
	Status      string
	Notes       string
	ValidatedAt *time.Time
	Lines       []ExitSlipLine
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ExitSlipLine producto y cantidad solicitada.
type ExitSlipLine struct {
	ID                string
	ExitSlipID        string
	ProductID         string
	RequestedQuantity int
}

// ReplaceLines reemplaza las líneas del bon.
func (s *ExitSlip) ReplaceLines(lines []ExitSlipLine) {
	s.Lines = lines
	for i := range s.Lines {
		s.Lines[i].ExitSlipID = s.ID
	}
}

// IsModifiable solo un borrador se edita.
func (s *ExitSlip) IsModifiable() bool {
	return s.Status == ExitSlipStatusDraft
}

// MarkValidated DRAFT -> VALIDATED. No valida stock: eso lo hace el motor FIFO.
func (s *ExitSlip) MarkValidated(now time.Time) error {
	if s.Status != ExitSlipStatusDraft {
		return domain.InvalidState("el bon "+s.Number, s.Status, "validar")
	}
	s.Status = ExitSlipStatusValidated
	s.ValidatedAt = &now
	s.UpdatedAt = now
	return nil
}

// Cancel DRAFT -> CANCELLED. Un bon validado no se revierte.
func (s *ExitSlip) Cancel(now time.Time) error {
	if s.Status != ExitSlipStatusDraft {
		return domain.InvalidState("el bon "+s.Number, s.Status, "anular")
	}
	s.Status = ExitSlipStatusCancelled
	s.UpdatedAt = now
	return nil
}
