package expiry

import (
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// Límites superiores (inclusive) de los tres primeros tramos del histograma.
// El último tramo llega hasta Policy.ProjectionDays.
var bucketBounds = [3]int{7, 14, 21}

// Fuente del registro con vencimiento.
const (
	SourceProduct = "product"
	SourceLot     = "lot"
)

// Record registro con fecha de vencimiento: producto con vencimiento directo o lote.
type Record struct {
	ID       string
	Name     string
	SKU      string
	Category string
	Source   string
	Expiry   any // valor crudo, lo interpreta Resolver
}

// CriticalAlert registro más urgente dentro de la ventana crítica.
type CriticalAlert struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Days     int    `json:"days"`
	Category string `json:"category"`
	Source   string `json:"source"`
}

// Result salida del triage. Critical es nil cuando todo está en orden.
type Result struct {
	Critical   *CriticalAlert
	Buckets    [4]int   // ≤7, ≤14, ≤21, ≤ProjectionDays
	Expired    int      // registros ya vencidos (fuera del histograma)
	Evaluated  int      // registros con fecha válida
	Skipped    int      // registros con fecha ilegible (solo modo tolerante)
	SkippedIDs []string
}

// Policy parámetros del motor de triage.
type Policy struct {
	CriticalDays   int
	ProjectionDays int
	Strict         bool // true: una fecha ilegible aborta el triage con domain.ErrUnparseableDate
	Loc            *time.Location
}

// DefaultPolicy ventana crítica de 7 días y horizonte de 30, modo tolerante, hora local.
func DefaultPolicy() Policy {
	return Policy{CriticalDays: 7, ProjectionDays: 30, Loc: time.Local}
}

// Resolver devuelve el resolver de fechas acorde a la política.
func (p Policy) Resolver() Resolver {
	return NewResolver(p.Loc, !p.Strict)
}

// Triage es una función pura de los registros y la fecha de hoy; se recalcula completo en cada cambio.
// Crítico: menor diferencia de días entre los registros con d <= CriticalDays (empates: el primero visto).
// Histograma: solo 0 <= d <= ProjectionDays. Los vencidos (d < 0) se cuentan aparte en Expired.
func (p Policy) Triage(records []Record, today time.Time) (Result, error) {
	res := Result{}
	resolver := p.Resolver()
	for _, rec := range records {
		target, err := resolver.Resolve(rec.Expiry)
		if err != nil {
			if errors.Is(err, ErrNoDate) {
				continue
			}
			if p.Strict {
				return Result{}, fmt.Errorf("registro %s: %w", rec.ID, err)
			}
			res.Skipped++
			res.SkippedIDs = append(res.SkippedIDs, rec.ID)
			continue
		}
		res.Evaluated++
		days := DaysUntil(today, target, resolver.loc())

		if days <= p.CriticalDays && (res.Critical == nil || days < res.Critical.Days) {
			res.Critical = &CriticalAlert{
				ID:       rec.ID,
				Name:     rec.Name,
				SKU:      rec.SKU,
				Days:     days,
				Category: rec.Category,
				Source:   rec.Source,
			}
		}

		switch {
		case days < 0:
			res.Expired++
		case days <= p.ProjectionDays:
			res.Buckets[bucketFor(days)]++
		}
	}
	return res, nil
}

func bucketFor(days int) int {
	for i, bound := range bucketBounds {
		if days <= bound {
			return i
		}
	}
	return len(bucketBounds)
}

// FromSnapshot arma los registros con vencimiento a partir de las instantáneas de productos y lotes.
// Los lotes toman nombre, SKU y categoría de su producto; si el producto no existe se usa el número de lote.
func FromSnapshot(products []*entity.Product, lots []*entity.InventoryLot) []Record {
	byID := make(map[string]*entity.Product, len(products))
	records := make([]Record, 0, len(products)+len(lots))
	for _, p := range products {
		if p == nil {
			continue
		}
		byID[p.ID] = p
		if p.ExpiryDate == "" {
			continue
		}
		records = append(records, Record{
			ID:       p.ID,
			Name:     p.Name,
			SKU:      p.SKU,
			Category: p.Category,
			Source:   SourceProduct,
			Expiry:   p.ExpiryDate,
		})
	}
	for _, l := range lots {
		if l == nil || l.ExpiryDate == "" {
			continue
		}
		rec := Record{ID: l.ID, Name: l.LotNumber, Source: SourceLot, Expiry: l.ExpiryDate}
		if p, ok := byID[l.ProductID]; ok {
			rec.Name = p.Name
			rec.SKU = p.SKU
			rec.Category = p.Category
		}
		records = append(records, rec)
	}
	return records
}
