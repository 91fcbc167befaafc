package dto

type RunRequest struct {
	Date string `json:"date"`
}

type SortedDepotResponse struct {
	Name     string           `json:"name"`
	Location string           `json:"location"`
	Parcels  []ParcelResponse `json:"parcels"`
}

type RunResponse struct {
	RunID  string                `json:"run_id"`
	Date   string                `json:"date"`
	Depots []SortedDepotResponse `json:"depots"`
}
