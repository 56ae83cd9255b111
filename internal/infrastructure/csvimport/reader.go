// Package csvimport lee el listado de productos exportado de la hoja de cálculo del almacén
// (separador ';', coma decimal, habitualmente en Windows-1251).
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/hotwellkz/warehouse-api/internal/application/inventory"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
)

// Codificaciones admitidas.
const (
	EncodingUTF8   = "utf8"
	EncodingCP1251 = "cp1251"
)

// Columnas esperadas, en este orden: nombre; unidad; cantidad; mínimo; costo promedio; almacén.
const columns = 6

// RowError error de una fila concreta (1 = primera fila de datos).
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string { return fmt.Sprintf("fila %d: %v", e.Row, e.Err) }
func (e *RowError) Unwrap() error { return e.Err }

// Read decodifica r y devuelve los productos a dar de alta. La primera fila es la cabecera.
// Las filas inválidas no detienen la lectura: se devuelven en errs.
func Read(r io.Reader, encoding string) (items []inventory.CreateProductInput, errs []error, err error) {
	switch strings.ToLower(encoding) {
	case "", EncodingUTF8:
	case EncodingCP1251, "windows-1251":
		r = transform.NewReader(r, charmap.Windows1251.NewDecoder())
	default:
		return nil, nil, fmt.Errorf("codificación no soportada %q", encoding)
	}

	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("cabecera: %w", err)
	}
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return items, errs, fmt.Errorf("fila %d: %w", row, err)
		}
		if blank(rec) {
			continue
		}
		in, err := parseRow(rec)
		if err != nil {
			errs = append(errs, &RowError{Row: row, Err: err})
			continue
		}
		items = append(items, in)
	}
	return items, errs, nil
}

func parseRow(rec []string) (inventory.CreateProductInput, error) {
	if len(rec) < columns {
		return inventory.CreateProductInput{}, fmt.Errorf("se esperaban %d columnas, hay %d", columns, len(rec))
	}
	qty, err := parseInt(rec[2])
	if err != nil {
		return inventory.CreateProductInput{}, fmt.Errorf("cantidad: %w", err)
	}
	min, err := parseInt(rec[3])
	if err != nil {
		return inventory.CreateProductInput{}, fmt.Errorf("mínimo: %w", err)
	}
	avg, err := parseDecimal(rec[4])
	if err != nil {
		return inventory.CreateProductInput{}, fmt.Errorf("costo: %w", err)
	}
	warehouse := strings.TrimSpace(rec[5])
	if warehouse == "" {
		warehouse = entity.WarehouseMain
	}
	return inventory.CreateProductInput{
		Name:        strings.TrimSpace(rec[0]),
		Unit:        strings.TrimSpace(rec[1]),
		Quantity:    qty,
		MinQuantity: min,
		AverageCost: avg,
		WarehouseID: warehouse,
	}, nil
}

func parseInt(s string) (int64, error) {
	s = normalizeNumber(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = normalizeNumber(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}

// normalizeNumber quita separadores de miles (espacio y espacio duro).
func normalizeNumber(s string) string {
	return strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "").Replace(strings.TrimSpace(s))
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
