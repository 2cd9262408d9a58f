package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMonthlyInstallment(t *testing.T) {
	// 1,200,000 at 10% flat over 24 months: interest 240,000, total
	// 1,440,000, installment 60,000.
	got := MonthlyInstallment(decimal.NewFromInt(1200000), decimal.NewFromInt(10), 24)
	assert.True(t, got.Equal(decimal.NewFromInt(60000)), "got %s", got)
}

func TestMonthlyInstallment_ZeroRate(t *testing.T) {
	got := MonthlyInstallment(decimal.NewFromInt(1200000), decimal.Zero, 12)
	assert.True(t, got.Equal(decimal.NewFromInt(100000)))
}

func TestMonthlyInstallment_RoundsToPaise(t *testing.T) {
	got := MonthlyInstallment(decimal.NewFromInt(100000), decimal.NewFromInt(7), 36)
	assert.Equal(t, "3361.11", got.StringFixed(2))
}

func TestMonthlyInstallment_NoTenure(t *testing.T) {
	got := MonthlyInstallment(decimal.NewFromInt(100000), decimal.NewFromInt(10), 0)
	assert.True(t, got.IsZero())
}
