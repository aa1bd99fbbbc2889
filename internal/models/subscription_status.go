package models

// SubscriptionStatus is the application's normalized subscription state.
// Provider status strings are mapped onto this four-value enum at every
// write path, so readers never see a raw provider status.
type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusUnpaid   SubscriptionStatus = "unpaid"
	StatusCanceled SubscriptionStatus = "canceled"
	StatusPastDue  SubscriptionStatus = "past_due"
)

// StatusFromProvider maps a provider subscription status onto the
// application enum. Unknown statuses map to past_due: the safe default is
// "needs attention", never "entitled".
func StatusFromProvider(providerStatus string) SubscriptionStatus {
	switch providerStatus {
	case "active", "trialing":
		return StatusActive
	case "canceled", "incomplete_expired":
		return StatusCanceled
	case "unpaid":
		return StatusUnpaid
	case "past_due", "incomplete":
		return StatusPastDue
	default:
		return StatusPastDue
	}
}

// IsValid reports whether s is one of the four known values.
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusUnpaid, StatusCanceled, StatusPastDue:
		return true
	}
	return false
}
