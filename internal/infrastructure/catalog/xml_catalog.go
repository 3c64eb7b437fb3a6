// Package catalog lee catálogos de artículos exportados por el ERP anterior
// (XML, normalmente en ISO-8859-1) y los convierte en altas de producto.
package catalog

import (
	"encoding/xml"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/gestion-stock-api/internal/application/dto"
)

type catalogue struct {
	Articles []article `xml:"article"`
}

type article struct {
	Reference   string `xml:"reference,attr"`
	Unit        string `xml:"unite,attr"`
	Designation string `xml:"designation"`
	Description string `xml:"description"`
	Family      string `xml:"famille"`
	Price       string `xml:"prix"`
	Threshold   string `xml:"seuil"`
}

// LineError artículo descartado y el motivo.
type LineError struct {
	Index     int // posición 1-based dentro del catálogo
	Reference string
	Err       error
}

func (e LineError) Error() string {
	return fmt.Sprintf("artículo %d (%s): %v", e.Index, e.Reference, e.Err)
}

// Parse decodifica el catálogo. Los artículos inválidos no abortan la lectura:
// se devuelven aparte en rejected para que el llamador los reporte.
func Parse(r io.Reader) (valid []dto.CreateProductRequest, rejected []LineError, err error) {
	var c catalogue
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	if err := dec.Decode(&c); err != nil {
		return nil, nil, fmt.Errorf("decodificar catálogo: %w", err)
	}

	v := validator.New()
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		d, _ := f.Interface().(decimal.Decimal).Float64()
		return d
	}, decimal.Decimal{})
	seen := make(map[string]struct{}, len(c.Articles))
	for i, a := range c.Articles {
		req, err := a.toRequest()
		if err == nil {
			err = v.Struct(req)
		}
		if err == nil {
			if _, dup := seen[req.Reference]; dup {
				err = fmt.Errorf("referencia repetida en el catálogo")
			}
		}
		if err != nil {
			rejected = append(rejected, LineError{Index: i + 1, Reference: a.Reference, Err: err})
			continue
		}
		seen[req.Reference] = struct{}{}
		valid = append(valid, req)
	}
	return valid, rejected, nil
}

func (a article) toRequest() (dto.CreateProductRequest, error) {
	req := dto.CreateProductRequest{
		Reference:     strings.TrimSpace(a.Reference),
		Name:          strings.TrimSpace(a.Designation),
		Description:   strings.TrimSpace(a.Description),
		Category:      strings.TrimSpace(a.Family),
		UnitOfMeasure: strings.TrimSpace(a.Unit),
	}
	if req.UnitOfMeasure == "" {
		req.UnitOfMeasure = "U"
	}
	// el ERP exporta con coma decimal
	price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(a.Price), ",", "."))
	if err != nil {
		return req, fmt.Errorf("prix inválido %q", a.Price)
	}
	req.UnitPrice = price
	if t := strings.TrimSpace(a.Threshold); t != "" {
		n, err := strconv.Atoi(t)
		if err != nil {
			return req, fmt.Errorf("seuil inválido %q", a.Threshold)
		}
		req.ReorderThreshold = n
	}
	return req, nil
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToUpper(charset) {
	case "ISO-8859-1", "ISO8859-1", "LATIN1":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	case "WINDOWS-1252", "CP1252":
		return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
	case "UTF-8", "":
		return input, nil
	}
	return nil, fmt.Errorf("codificación no soportada: %s", charset)
}
