package dto

import (
	"parcel-sorting-service/internal/domain"
	"time"
)

type ParcelResponse struct {
	Number       int        `json:"number"`
	DeliveryDate time.Time  `json:"delivery_date"`
	Postcode     string     `json:"postcode"`
	Route        *string    `json:"route"`
	ETA          *time.Time `json:"eta"`
}

type ListParcelsResponse struct {
	Parcels []ParcelResponse `json:"parcels"`
}

func NewParcelResponse(p *domain.Parcel) ParcelResponse {
	return ParcelResponse{
		Number:       p.ID,
		DeliveryDate: p.DeliveryDate,
		Postcode:     p.Destination.String(),
		Route:        p.Route,
		ETA:          p.ETA,
	}
}

func NewParcelResponses(parcels []*domain.Parcel) []ParcelResponse {
	out := make([]ParcelResponse, 0, len(parcels))
	for _, p := range parcels {
		out = append(out, NewParcelResponse(p))
	}
	return out
}
