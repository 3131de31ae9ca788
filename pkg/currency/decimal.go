package currency

import (
	"math"

	"github.com/code-payments/code-sdk-go/pkg/kin"
)

// GetDecimals returns the number of minor unit digits for a currency
func GetDecimals(code Code) int {
	switch code {
	case KIN:
		return kin.Decimals
	case AFN,
		ALL,
		BIF,
		CLP,
		COP,
		DJF,
		GNF,
		IQD,
		IDR,
		IRR,
		ISK,
		JPY,
		KMF,
		KPW,
		KRW,
		LAK,
		LBP,
		MGA,
		MMK,
		MRU,
		PYG,
		RSD,
		RWF,
		SLL,
		SOS,
		SYP,
		TZS,
		UGX,
		UYU,
		VND,
		VUV,
		XAF,
		XOF,
		XPF,
		YER:
		return 0
	case BHD,
		JOD,
		KWD,
		LYD,
		OMR,
		TND:
		return 3
	}
	return 2
}

// HasValidPrecision returns whether an amount can be represented without
// exceeding the number of minor unit digits of its currency
func HasValidPrecision(code Code, amount float64) bool {
	scale := math.Pow10(GetDecimals(code))
	scaled := amount * scale
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}
