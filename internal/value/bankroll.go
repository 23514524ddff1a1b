package value

import "github.com/shopspring/decimal"

// Bankroll converts a configured bankroll amount into decimal form.
func Bankroll(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount)
}

// StakeAmount converts a Kelly stake percentage into a currency amount for
// the given bankroll, rounded to cents. Decimal arithmetic avoids the float
// drift that creeps into repeated bankroll math.
func StakeAmount(bankroll decimal.Decimal, stakePercent float64) decimal.Decimal {
	if stakePercent <= 0 || bankroll.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	pct := decimal.NewFromFloat(stakePercent).Div(decimal.NewFromInt(100))
	return bankroll.Mul(pct).Round(2)
}
