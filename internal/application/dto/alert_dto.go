package dto

import "time"

// AlertPayloadDTO esperado/contado de una discrepancia.
type AlertPayloadDTO struct {
	Expected int `json:"expected"`
	Counted  int `json:"counted"`
}

// AlertResponse salida de una alerta.
type AlertResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Color       string           `json:"color"`
	Icon        string           `json:"icon"`
	Reference   string           `json:"reference,omitempty"`
	Payload     *AlertPayloadDTO `json:"payload,omitempty"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
}

// AlertListResponse lista paginada de alertas con el contador de no leídas.
type AlertListResponse struct {
	Items  []AlertResponse `json:"items"`
	Unread int             `json:"unread"`
	Page   PageResponse    `json:"page"`
}

// UnreadCountResponse contador del badge.
type UnreadCountResponse struct {
	Unread int `json:"unread"`
}
