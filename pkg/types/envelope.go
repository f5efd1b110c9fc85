package types

// Envelope is the uniform success/failure wrapper around every
// outward-facing response. Data is set only on success; ErrorMessage
// and Detail only on failure. Outward-facing functions never return a
// bare canonical shape or a bare raw structure.
type Envelope struct {
	Success      bool   `json:"success"`
	Data         any    `json:"data,omitempty"`
	Message      string `json:"message,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	Detail       string `json:"detail,omitempty"`
}
