package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderTableNames(t *testing.T) {
	assert.Equal(t, "orders", Order{}.TableName())
	assert.Equal(t, "order_items", OrderItem{}.TableName())
}

func TestIsProtectedStatus(t *testing.T) {
	tests := []struct {
		status    string
		protected bool
	}{
		{StatusEmitted, false},
		{StatusInProcess, false},
		{StatusPaid, true},
		{StatusToShip, false},
		{StatusCanceled, false},
		{StatusDispatched, true},
		{StatusArchived, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.protected, IsProtectedStatus(tt.status))
		})
	}
}

func TestIsValidTransitionTarget(t *testing.T) {
	for _, status := range []string{StatusEmitted, StatusInProcess, StatusPaid, StatusToShip, StatusCanceled, StatusDispatched} {
		assert.True(t, IsValidTransitionTarget(status), status)
	}

	// Archived is maintenance-only and arbitrary strings are rejected
	assert.False(t, IsValidTransitionTarget(StatusArchived))
	assert.False(t, IsValidTransitionTarget("shipped"))
	assert.False(t, IsValidTransitionTarget(""))
}

func TestIsCatalogSKU(t *testing.T) {
	assert.True(t, IsCatalogSKU("UT-890C"))
	assert.False(t, IsCatalogSKU("MANUAL"))
	assert.False(t, IsCatalogSKU("GENERIC"))
	assert.False(t, IsCatalogSKU("manual"))
}
