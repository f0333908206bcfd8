package model

// OrderStatus is the lifecycle state of an order. The wire value and the
// persisted value are identical.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// forwardStatuses is the intended forward order of the lifecycle.
// Cancelled sits outside the forward path and has no successor.
var forwardStatuses = []OrderStatus{
	StatusPending,
	StatusPaid,
	StatusShipped,
	StatusDelivered,
}

// Valid reports whether s is one of the defined order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// NextStatus returns the successor of s in the forward lifecycle
// [pending, paid, shipped, delivered]. It returns false when s is the last
// forward state, cancelled, or unknown. The result is advisory: it drives
// the admin "advance status" suggestion and does not gate status updates.
func NextStatus(s OrderStatus) (OrderStatus, bool) {
	for i, cur := range forwardStatuses {
		if cur == s && i+1 < len(forwardStatuses) {
			return forwardStatuses[i+1], true
		}
	}
	return "", false
}
