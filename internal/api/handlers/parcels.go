package handlers

import (
	"net/http"
	"parcel-sorting-service/internal/api/dto"
	"parcel-sorting-service/internal/ports"
	"parcel-sorting-service/internal/services"
	"time"

	"go.uber.org/zap"
)

// ParcelHandler exposes read-only parcel retrieval, optionally filtered by ?date=YYYY-MM-DD.
type ParcelHandler struct {
	Source ports.ParcelSource
}

func (h *ParcelHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	parcels, err := h.Source.ListParcels(r.Context())
	if err != nil {
		zap.L().Error("list parcels failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "date must be in format YYYY-MM-DD")
			return
		}
		parcels = services.FilterByDate(parcels, date)
	}

	writeJSON(w, r, http.StatusOK, dto.ListParcelsResponse{Parcels: dto.NewParcelResponses(parcels)})
}
