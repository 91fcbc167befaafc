package handlers

import (
	"errors"
	"net/http"
	"parcel-sorting-service/internal/adapters/routedetails"
	"parcel-sorting-service/internal/api/dto"
	"parcel-sorting-service/internal/domain"
	"parcel-sorting-service/internal/ports"
	"parcel-sorting-service/internal/services"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RunHandler triggers a sorting run for one delivery date.
type RunHandler struct {
	Source ports.ParcelSource
	Syncer ports.RouteSyncer
	Store  ports.DepotStore
	Depots []*domain.Depot
	Logger *zap.Logger
}

func (h *RunHandler) Run(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.RunRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	date, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(req.Date), time.Local)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be in format YYYY-MM-DD")
		return
	}

	svcReq := services.SortParcelsRequest{Date: date, Depots: h.Depots}

	result, err := services.SortParcels(r.Context(), svcReq, h.Source, h.Syncer, h.Store, h.Logger)
	if err != nil {
		status, msg := runErrorStatus(err)
		if status >= http.StatusInternalServerError {
			zap.L().Error("sorting run failed", zap.String("date", req.Date), zap.Error(err))
		}
		writeError(w, r, status, msg)
		return
	}

	res := dto.RunResponse{
		RunID:  result.RunID,
		Date:   date.Format(time.DateOnly),
		Depots: make([]dto.SortedDepotResponse, 0, len(result.Depots)),
	}
	for _, d := range result.Depots {
		res.Depots = append(res.Depots, dto.SortedDepotResponse{
			Name:     d.Name,
			Location: d.Location,
			Parcels:  dto.NewParcelResponses(d.Parcels),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// runErrorStatus maps a failed run to a response. Input problems are the
// caller's fault; route service failures surface as 502.
func runErrorStatus(err error) (int, string) {
	var syncErr *routedetails.ParcelSyncError
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrFormat):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &syncErr):
		return http.StatusBadGateway, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
