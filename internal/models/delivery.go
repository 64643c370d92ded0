package models

// DeliveryStatus classifies a messaging provider reply.
type DeliveryStatus int

const (
	DeliveryFailed DeliveryStatus = iota
	DeliverySent
	DeliveryInvalidNumber
	DeliveryLimitReached
)

func (s DeliveryStatus) String() string {
	switch s {
	case DeliverySent:
		return "sent"
	case DeliveryInvalidNumber:
		return "invalid_number"
	case DeliveryLimitReached:
		return "limit_reached"
	}
	return "failed"
}

// DeliveryOutcome is the decoded result of a send attempt. Message holds the
// provider's text for DeliveryFailed.
type DeliveryOutcome struct {
	Status  DeliveryStatus
	Message string
}
