package entity

import (
	"regexp"
	"strings"
	"time"

	"github.com/jhoicas/gestion-stock-api/internal/domain"
)

// ICELength longitud exacta del Identifiant Commun de l'Entreprise.
const ICELength = 15

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// Supplier representa un proveedor. Email e ICE son únicos.
type Supplier struct {
	ID            string
	CompanyName   string // razón social
	Address       string
	City          string
	ContactPerson string
	Email         string
	Phone         string
	ICE           string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate comprueba formato de teléfono, ICE y campos obligatorios.
func (s *Supplier) Validate() error {
	if strings.TrimSpace(s.CompanyName) == "" {
		return domain.Invalid("la razón social es obligatoria")
	}
	if strings.TrimSpace(s.Email) == "" {
		return domain.Invalid("el email del proveedor es obligatorio")
	}
	if s.Phone != "" && !phonePattern.MatchString(s.Phone) {
		return domain.Invalid("teléfono inválido %q", s.Phone)
	}
	if len(s.ICE) != ICELength {
		return domain.Invalid("el ICE debe tener exactamente %d caracteres", ICELength)
	}
	return nil
}
