package bank

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"
)

// Decimals is the number of decimals of one coin. An amount is expressed in
// base units, 10^Decimals base units make one coin.
const Decimals = 9

var maxAmount = decimal.NewFromInt(math.MaxInt64).
	Mul(decimal.NewFromInt(2)).
	Add(decimal.NewFromInt(1))

// Amount is a quantity of base units.
type Amount uint64

// ParseAmount parses a decimal number of coins, for instance "0.02", into
// base units. It returns an error if the value is negative, too precise or too
// large.
func ParseAmount(text string) (Amount, error) {
	value, err := decimal.NewFromString(text)
	if err != nil {
		return 0, xerrors.Errorf("invalid amount '%s': %v", text, err)
	}

	if value.IsNegative() {
		return 0, xerrors.Errorf("negative amount '%s'", text)
	}

	units := value.Shift(Decimals)
	if !units.Equal(units.Truncate(0)) {
		return 0, xerrors.Errorf("amount '%s' has more than %d decimals", text, Decimals)
	}

	if units.GreaterThan(maxAmount) {
		return 0, xerrors.Errorf("amount '%s' overflows", text)
	}

	return Amount(units.BigInt().Uint64()), nil
}

// Coins returns the decimal number of coins of the amount.
func (a Amount) Coins() decimal.Decimal {
	return decimal.NewFromBigInt(newBigUint(uint64(a)), -Decimals)
}

// String implements fmt.Stringer. It returns the amount in coins.
func (a Amount) String() string {
	return a.Coins().String()
}

// Add returns the sum of the two amounts, or an error if it overflows.
func (a Amount) Add(other Amount) (Amount, error) {
	sum := a + other
	if sum < a {
		return 0, xerrors.Errorf("amount overflow: %d + %d", a, other)
	}

	return sum, nil
}
