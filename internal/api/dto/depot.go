package dto

type DepotResponse struct {
	Name  string   `json:"name"`
	Zones []string `json:"zones"`
}

type ListDepotsResponse struct {
	Depots []DepotResponse `json:"depots"`
}

type CoverageResponse struct {
	Postcode string   `json:"postcode"`
	Depots   []string `json:"depots"`
}
