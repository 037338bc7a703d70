package currency

import "strings"

// Currency identifies a settlement asset.
type Currency string

const (
	SOL  Currency = "SOL"
	USDC Currency = "USDC"
)

// Parse normalizes s into a supported Currency. The second return is
// false when s names no supported asset.
func Parse(s string) (Currency, bool) {
	switch Currency(strings.ToUpper(strings.TrimSpace(s))) {
	case SOL:
		return SOL, true
	case USDC:
		return USDC, true
	}
	return "", false
}

func (c Currency) IsValid() bool {
	return c == SOL || c == USDC
}

func (c Currency) String() string {
	return string(c)
}
