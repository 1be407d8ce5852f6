package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized  = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden     = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
)

// NewEmptyCartError reports a checkout attempt with no items
func NewEmptyCartError() *DomainError {
	return NewDomainError("EMPTY_CART", "El carrito está vacío")
}

// NewMissingFieldError reports the first missing required checkout field
func NewMissingFieldError(field string) *DomainError {
	return NewDomainError("MISSING_FIELD", fmt.Sprintf("Missing required field: %s", field))
}

// NewUnknownProductError reports a cart line referencing a product that does not exist
func NewUnknownProductError(productID string) *DomainError {
	return NewDomainError("UNKNOWN_PRODUCT", fmt.Sprintf("Unknown product: %s", productID))
}
