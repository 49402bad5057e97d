package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from OrderStatus
		to   OrderStatus
		ok   bool
	}{
		{OrderPending, OrderConfirmed, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderShipped, false},
		{OrderConfirmed, OrderProcessing, true},
		{OrderConfirmed, OrderPending, false},
		{OrderProcessing, OrderShipped, true},
		{OrderProcessing, OrderCancelled, true},
		{OrderShipped, OrderDelivered, true},
		{OrderShipped, OrderCancelled, false},
		{OrderDelivered, OrderShipped, false},
		{OrderCancelled, OrderPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatusCancellable(t *testing.T) {
	assert.True(t, OrderPending.Cancellable())
	assert.True(t, OrderConfirmed.Cancellable())
	assert.True(t, OrderProcessing.Cancellable())
	assert.False(t, OrderShipped.Cancellable())
	assert.False(t, OrderDelivered.Cancellable())
	assert.False(t, OrderCancelled.Cancellable())
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, OrderPending.Valid())
	assert.False(t, OrderStatus("returned").Valid())
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, PaymentCashOnDelivery.Valid())
	assert.False(t, PaymentMethod("barter").Valid())
}

func TestNewOrderNumber(t *testing.T) {
	n := NewOrderNumber()
	assert.True(t, strings.HasPrefix(n, "EVG-"), n)
	assert.Len(t, n, len("EVG-")+12)
	assert.Equal(t, strings.ToUpper(n), n)

	// collisions across calls should be absent in practice
	assert.NotEqual(t, n, NewOrderNumber())
}
