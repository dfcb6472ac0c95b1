package entity

import "errors"

// 单件状态
const (
	StatusOrdered      = "ordered"
	StatusReceived     = "received"
	StatusQualityCheck = "quality_check"
	StatusReadyForSale = "ready_for_sale"
	StatusReserved     = "reserved"
	StatusSold         = "sold"
	StatusShipped      = "shipped"
	StatusDelivered    = "delivered"
	StatusReturned     = "returned"
	StatusDiscarded    = "discarded"
)

var (
	ErrInvalidStatus     = errors.New("invalid status")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrDateSequence      = errors.New("date sequence violation")
)

// AllStatuses 全部状态，按生命周期声明顺序
var AllStatuses = []string{
	StatusOrdered,
	StatusReceived,
	StatusQualityCheck,
	StatusReadyForSale,
	StatusReserved,
	StatusSold,
	StatusShipped,
	StatusDelivered,
	StatusReturned,
	StatusDiscarded,
}

// statusLabels 展示名称
var statusLabels = map[string]string{
	StatusOrdered:      "Ordered",
	StatusReceived:     "Received in Warehouse",
	StatusQualityCheck: "Quality Check",
	StatusReadyForSale: "Ready for Sale",
	StatusReserved:     "Reserved",
	StatusSold:         "Sold",
	StatusShipped:      "Shipped",
	StatusDelivered:    "Delivered",
	StatusReturned:     "Returned",
	StatusDiscarded:    "Discarded",
}

// statusTransitions 状态流转表。discarded 为终态，没有出边
var statusTransitions = map[string][]string{
	StatusOrdered:      {StatusReceived, StatusDiscarded},
	StatusReceived:     {StatusQualityCheck, StatusReturned, StatusDiscarded},
	StatusQualityCheck: {StatusReadyForSale, StatusReturned, StatusDiscarded},
	StatusReadyForSale: {StatusReserved, StatusReturned, StatusDiscarded},
	StatusReserved:     {StatusSold, StatusReadyForSale},
	StatusSold:         {StatusShipped, StatusReturned},
	StatusShipped:      {StatusDelivered, StatusReturned},
	StatusDelivered:    {StatusReturned},
	StatusReturned:     {StatusReadyForSale, StatusDiscarded},
	StatusDiscarded:    {},
}

// IsValidStatus 是否为合法状态值
func IsValidStatus(status string) bool {
	_, ok := statusLabels[status]
	return ok
}

// StatusLabel 状态展示名称，未知状态原样返回
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// CanTransition from 状态是否允许流转到 to
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition 校验流转，区分非法状态值和不允许的边
func ValidateTransition(from, to string) error {
	if !IsValidStatus(to) {
		return ErrInvalidStatus
	}
	if !CanTransition(from, to) {
		return ErrIllegalTransition
	}
	return nil
}
