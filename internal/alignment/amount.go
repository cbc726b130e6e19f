package alignment

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// amountOverTolerance is the fraction by which a document amount may
	// exceed the claimed amount before alignment fails.
	amountOverTolerance = 0.10
	// amountLowWarnRatio is the fraction of the claimed amount below which
	// a document amount is flagged as a partial-coverage warning.
	amountLowWarnRatio = 0.50
)

// ParseAmount extracts a numeric amount from a free-text value such as
// "INR 12,500.00" or "$1,095".
func ParseAmount(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// CheckAmountAlignment compares a document amount against the claimed
// amount. Documents may show less than the claim (partial receipts) but may
// not exceed it by more than 10%. Amounts under half the claim pass with a
// warning.
func CheckAmountAlignment(claimedAmount, documentAmount float64) AmountAlignment {
	if claimedAmount <= 0 {
		return AmountAlignment{Aligned: true}
	}

	if documentAmount > claimedAmount*(1+amountOverTolerance) {
		overPct := (documentAmount/claimedAmount - 1) * 100
		return AmountAlignment{
			Aligned: false,
			Message: fmt.Sprintf("document amount %.2f is ~%.0f%% over the claimed amount %.2f", documentAmount, overPct, claimedAmount),
		}
	}

	if documentAmount < claimedAmount*amountLowWarnRatio {
		return AmountAlignment{
			Aligned: true,
			Warning: fmt.Sprintf("document amount %.2f covers less than half of the claimed amount %.2f", documentAmount, claimedAmount),
		}
	}

	return AmountAlignment{Aligned: true}
}
