package model

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeInvalidStatus    = "INVALID_STATUS"
	ErrCodeInvalidQuantity  = "INVALID_QUANTITY"
	ErrCodeOrderNotFound    = "ORDER_NOT_FOUND"
	ErrCodeProductNotFound  = "PRODUCT_NOT_FOUND"
	ErrCodeCartItemNotFound = "CART_ITEM_NOT_FOUND"
	ErrCodeConfiguration    = "CONFIGURATION_ERROR"
	ErrCodePersistence      = "PERSISTENCE_ERROR"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// DomainError carries a stable code alongside a human-readable message so
// handlers can map business failures to HTTP statuses without string
// matching.
type DomainError struct {
	Code    string
	Message string
}

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
	ErrNoUserOrItems    = NewDomainError(ErrCodeInvalidRequest, "no valid user or items")
	ErrInvalidStatus    = NewDomainError(ErrCodeInvalidStatus, "status must be one of pending, paid, shipped, delivered, cancelled")
	ErrInvalidQuantity  = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrOrderNotFound    = NewDomainError(ErrCodeOrderNotFound, "order not found")
	ErrProductNotFound  = NewDomainError(ErrCodeProductNotFound, "product not found")
	ErrCartItemNotFound = NewDomainError(ErrCodeCartItemNotFound, "cart item not found")
)
