package handlers

import (
	"errors"
	"net/http"
	"parcel-sorting-service/internal/api/dto"
	"parcel-sorting-service/internal/domain"

	"go.uber.org/zap"
)

// DepotHandler exposes the configured depot coverage.
type DepotHandler struct {
	Depots []*domain.Depot
}

func (h *DepotHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	res := dto.ListDepotsResponse{Depots: make([]dto.DepotResponse, 0, len(h.Depots))}
	for _, d := range h.Depots {
		zones := make([]string, 0, len(d.Coverage))
		for _, z := range d.Coverage {
			zones = append(zones, z.String())
		}
		res.Depots = append(res.Depots, dto.DepotResponse{Name: d.Name, Zones: zones})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Coverage lists the depots whose zones match ?postcode=.
func (h *DepotHandler) Coverage(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	raw := r.URL.Query().Get("postcode")
	if raw == "" {
		writeError(w, r, http.StatusBadRequest, "postcode is required")
		return
	}

	postcode, err := domain.ParseLiteralPostcode(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res := dto.CoverageResponse{Postcode: postcode.String(), Depots: []string{}}
	for _, d := range h.Depots {
		ok, err := d.Covers(postcode)
		if err != nil {
			if errors.Is(err, domain.ErrValidation) {
				writeError(w, r, http.StatusBadRequest, err.Error())
				return
			}
			zap.L().Error("coverage check failed", zap.String("depot", d.Name), zap.Error(err))
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
		if ok {
			res.Depots = append(res.Depots, d.Name)
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}
