package oauth

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// UserInfo es la identidad normalizada devuelta por cualquier proveedor.
type UserInfo struct {
	ProviderID string
	Email      string
}

// Validator convierte una credencial de proveedor en UserInfo o falla.
type Validator interface {
	Validate(ctx context.Context, token string) (UserInfo, error)
}

var (
	ErrInvalidToken      = errors.New("oauth token invalid")
	ErrProviderError     = errors.New("oauth provider error")
	ErrInvalidAppleToken = errors.New("apple token invalid")
)

// newHTTPClient construye el cliente compartido por los validators.
// El timeout es el único mecanismo de cancelación hacia los proveedores.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
