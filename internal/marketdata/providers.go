package marketdata

import (
	"fmt"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/apperrors"
)

// Provider names accepted by NewProvider.
const (
	ProviderYahoo  = "yahoo"
	ProviderAlpaca = "alpaca"
)

// NewProvider constructs the named provider. Alpaca requires a key pair;
// the remaining Alpaca arguments may be empty.
func NewProvider(name, alpacaKey, alpacaSecret, alpacaBaseURL, alpacaFeed string) (Provider, error) {
	switch name {
	case ProviderYahoo:
		return NewYahooProvider(), nil
	case ProviderAlpaca:
		if alpacaKey == "" || alpacaSecret == "" {
			return nil, fmt.Errorf("alpaca provider requires ALPACA_API_KEY and ALPACA_API_SECRET")
		}
		return NewAlpacaProvider(alpacaKey, alpacaSecret, alpacaBaseURL, alpacaFeed), nil
	default:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownProvider, name)
	}
}
