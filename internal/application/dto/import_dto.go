package dto

// ImportResult resultado de una importación CSV de catálogo.
// Status es "success" si no hubo filas con error y "partial" si las hubo.
type ImportResult struct {
	Status  string   `json:"status"`
	Created int      `json:"created"`
	Errors  []string `json:"errors"`
}
