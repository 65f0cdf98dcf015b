package core

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders any currency or quantity value with exactly two
// decimal places. Missing or non-numeric input degrades to "0.00" instead of
// failing; rounding is half-away-from-zero, so 1.005 prints as "1.01".
func FormatAmount(v any) string {
	return FormatAmountN(v, 2)
}

func FormatAmountN(v any, digits int32) string {
	return coerceDecimal(v).StringFixed(digits)
}

func coerceDecimal(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case string:
		return parseDecimal(x)
	case LooseString:
		return parseDecimal(string(x))
	case json.Number:
		return parseDecimal(x.String())
	case float64:
		return decimal.NewFromFloat(x)
	case float32:
		return decimal.NewFromFloat32(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	default:
		return decimal.Zero
	}
}

func parseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
