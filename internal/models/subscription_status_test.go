package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFromProvider(t *testing.T) {
	cases := map[string]SubscriptionStatus{
		"active":             StatusActive,
		"trialing":           StatusActive,
		"canceled":           StatusCanceled,
		"incomplete_expired": StatusCanceled,
		"past_due":           StatusPastDue,
		"incomplete":         StatusPastDue,
		"unpaid":             StatusUnpaid,
	}
	for provider, want := range cases {
		assert.Equal(t, want, StatusFromProvider(provider), "provider status %q", provider)
	}

	// Anything unrecognized degrades to past due rather than active.
	assert.Equal(t, StatusPastDue, StatusFromProvider("paused"))
	assert.Equal(t, StatusPastDue, StatusFromProvider(""))
}

func TestSubscriptionStatusIsValid(t *testing.T) {
	for _, s := range []SubscriptionStatus{StatusActive, StatusUnpaid, StatusCanceled, StatusPastDue} {
		assert.True(t, s.IsValid())
	}
	assert.False(t, SubscriptionStatus("active!").IsValid())
	assert.False(t, SubscriptionStatus("").IsValid())
}
