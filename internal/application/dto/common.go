package dto

// Valores de status del sobre de respuesta. El cliente trata todo lo que no sea "success" como fallo.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"  // error del usuario: validación, stock insuficiente, no encontrado
	StatusError   = "error" // error del servidor o conflicto no resuelto
)

// StatusResponse sobre {status, message} de las operaciones que mutan y de los errores.
type StatusResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	ID      string   `json:"id,omitempty"`
	BatchID string   `json:"batch_id,omitempty"`
	Summary []string `json:"summary,omitempty"`
}

// Success construye un sobre exitoso.
func Success(message string) StatusResponse {
	return StatusResponse{Status: StatusSuccess, Message: message}
}

// Fail construye un sobre de error de usuario.
func Fail(message string) StatusResponse {
	return StatusResponse{Status: StatusFail, Message: message}
}

// Error construye un sobre de error interno.
func Error(message string) StatusResponse {
	return StatusResponse{Status: StatusError, Message: message}
}
