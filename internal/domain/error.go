package domain

// ErrorResponse é o corpo de erro devolvido pelo backend Stockify.
// Apenas Message é garantido; os demais campos variam conforme o handler.
type ErrorResponse struct {
	Status  int    `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}
