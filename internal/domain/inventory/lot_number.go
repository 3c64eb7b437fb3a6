package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	lotSegmentLen = 4
	// maxLotAttempts límite de colisiones antes de rendirse.
	maxLotAttempts = 1000
)

// LotExistsFunc consulta si un número de lote ya está registrado.
type LotExistsFunc func(ctx context.Context, lotNumber string) (bool, error)

// segment pliega acentos, deja solo letras y dígitos en mayúscula y toma los primeros 4.
// "Écrou-12" -> "ECRO".
func segment(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	n := 0
	for _, r := range cases.Upper(language.Und).String(folded) {
		if n == lotSegmentLen {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			n++
		}
	}
	if b.Len() == 0 {
		return "XXXX"
	}
	return b.String()
}

// LotPrefix LOT-<aaaammdd>-<REF4>-<ORD4>.
func LotPrefix(receptionDate time.Time, productReference, orderNumber string) string {
	return fmt.Sprintf("LOT-%s-%s-%s", receptionDate.Format("20060102"), segment(productReference), segment(orderNumber))
}

// NextLotNumber devuelve el primer prefix-NNN libre empezando en seq (posición de la línea).
// La restricción UNIQUE de la tabla sigue siendo la garantía final ante carreras.
func NextLotNumber(ctx context.Context, exists LotExistsFunc, prefix string, seq int) (string, error) {
	if seq < 1 {
		seq = 1
	}
	for i := 0; i < maxLotAttempts; i++ {
		candidate := fmt.Sprintf("%s-%03d", prefix, seq+i)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("verificar número de lote: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("sin número de lote libre para %s tras %d intentos", prefix, maxLotAttempts)
}
