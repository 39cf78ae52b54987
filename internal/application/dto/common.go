package dto

// Límites de paginación de los listados.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageRequest página pedida por query string (?limit=&offset=).
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize limit 0 o negativo → DefaultLimit, mayor a MaxLimit → MaxLimit, offset negativo → 0.
func (p PageRequest) Normalize() PageRequest {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// PageResponse página devuelta. HasMore se infiere de una página llena.
type PageResponse struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// NewPageResponse metadatos para una página que trajo n filas.
func NewPageResponse(p PageRequest, n int) PageResponse {
	return PageResponse{Limit: p.Limit, Offset: p.Offset, HasMore: p.Limit > 0 && n >= p.Limit}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
