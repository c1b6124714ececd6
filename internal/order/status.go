package order

// AllowedTransitions is the full adjacency table of the order lifecycle.
// Every status appears as a key; delivered and cancelled are terminal.
func AllowedTransitions() map[OrderStatus][]OrderStatus {
	return map[OrderStatus][]OrderStatus{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusShipped, StatusCancelled},
		StatusShipped:   {StatusDelivered, StatusCancelled},
		StatusDelivered: {},
		StatusCancelled: {},
	}
}

// Valid reports whether s is a member of the status enum.
func (s OrderStatus) Valid() bool {
	_, ok := AllowedTransitions()[s]
	return ok
}

// Terminal reports whether no transition leaves s.
func (s OrderStatus) Terminal() bool {
	return len(AllowedTransitions()[s]) == 0
}

// CanTransition reports whether from → to is an edge of the table.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range AllowedTransitions()[from] {
		if next == to {
			return true
		}
	}
	return false
}

var statusLabels = map[OrderStatus]string{
	StatusPending:   "Chờ xác nhận",
	StatusConfirmed: "Đã xác nhận",
	StatusShipped:   "Đang giao hàng",
	StatusDelivered: "Đã giao hàng",
	StatusCancelled: "Đã hủy",
}

func statusLabel(s OrderStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}
