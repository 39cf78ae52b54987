package counting

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// ToSessionResponse mapea la sesión con la diferencia de cada línea contada.
func ToSessionResponse(s *entity.CountSession) dto.CountSessionResponse {
	items := make([]dto.CountItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, toItemResponse(it))
	}
	return dto.CountSessionResponse{
		ID:            s.ID,
		WorkerID:      s.WorkerID,
		Location:      s.Location,
		Status:        s.Status,
		Items:         items,
		TotalExpected: s.TotalExpected,
		TotalCounted:  s.TotalCounted,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
		ClosedAt:      s.ClosedAt,
	}
}

func toItemResponse(it entity.CountItem) dto.CountItemResponse {
	out := dto.CountItemResponse{
		ProductID:   it.ProductID,
		SKU:         it.SKU,
		Name:        it.Name,
		UnitsPerBox: it.UnitsPerBox,
		Expected:    it.Expected,
		Counted:     it.Counted,
	}
	if it.Counted != nil {
		d := *it.Counted - it.Expected
		out.Diff = &d
	}
	return out
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
