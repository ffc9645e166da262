package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundHalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10.005", "10.01"},
		{"10.004", "10"},
		{"10.015", "10.02"},
		{"0.125", "0.13"},
		{"52", "52"},
		{"-1.005", "-1.01"},
	}
	for _, tc := range cases {
		v, err := decimal.NewFromString(tc.in)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, Round(v).String(), "round %s", tc.in)
	}
}

func TestMulQty(t *testing.T) {
	unit, _ := decimal.NewFromString("25.00")
	assert.True(t, MulQty(unit, 2).Equal(decimal.NewFromInt(50)))

	third, _ := decimal.NewFromString("3.335")
	assert.Equal(t, "10.01", MulQty(third, 3).String())
}

func TestNonNegative(t *testing.T) {
	neg, _ := decimal.NewFromString("-4.20")
	assert.True(t, NonNegative(neg).IsZero())

	pos, _ := decimal.NewFromString("4.20")
	assert.Equal(t, "4.2", NonNegative(pos).String())
}

func TestSum(t *testing.T) {
	a := FromFloat(25.00)
	b := FromFloat(5.00)
	c := FromFloat(-3.00)
	assert.Equal(t, "27", Sum(a, b, c).String())
}
