package loopring

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const (
	MaxDecimals = 18
	ZeroAddress = "0x0000000000000000000000000000000000000000"
)

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ParseTokenAmount converts a decimal token amount such as "12.5" to base units.
// Digits past decimals are truncated; the result must be positive and fit uint256.
func ParseTokenAmount(amount string, decimals int) (*big.Int, error) {
	if decimals < 0 || decimals > MaxDecimals {
		return nil, &InvalidParamError{Message: fmt.Sprintf("decimals must be between 0 and %d, got: %d", MaxDecimals, decimals)}
	}

	amount = strings.TrimSpace(amount)
	whole, frac, _ := strings.Cut(amount, ".")
	if (whole == "" && frac == "") || !isDigits(whole) || !isDigits(frac) {
		return nil, &InvalidParamError{Message: fmt.Sprintf("amount %q is not a decimal number", amount)}
	}

	if len(frac) > decimals {
		frac = frac[:decimals]
	}
	frac += strings.Repeat("0", decimals-len(frac))

	units, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, &InvalidParamError{Message: fmt.Sprintf("amount %q is not a decimal number", amount)}
	}
	if units.Sign() <= 0 {
		return nil, &InvalidParamError{Message: fmt.Sprintf("amount %q is zero in base units", amount)}
	}
	if units.Cmp(maxUint256) > 0 {
		return nil, &InvalidParamError{Message: fmt.Sprintf("amount too large for uint256: %s", units.String())}
	}
	return units, nil
}

// SafeAmountToWei converts a human-readable token amount to base units
func SafeAmountToWei(amount float64, decimals int) (*big.Int, error) {
	if amount <= 0 {
		return nil, &InvalidParamError{Message: fmt.Sprintf("amount must be positive, got: %f", amount)}
	}
	return ParseTokenAmount(strconv.FormatFloat(amount, 'f', -1, 64), decimals)
}

// OrderAmount returns amount in base units as the decimal string OrderData.AmountS,
// AmountB and FeeAmount take.
func OrderAmount(amount string, decimals int) (string, error) {
	units, err := ParseTokenAmount(amount, decimals)
	if err != nil {
		return "", err
	}
	return units.String(), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseAddress validates a hex address; "" and "0x0" are the zero address
func parseAddress(name, addr string) (common.Address, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" || addr == "0x0" {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(addr) {
		return common.Address{}, &InvalidParamError{Message: fmt.Sprintf("%s is not a valid address: %q", name, addr)}
	}
	return common.HexToAddress(addr), nil
}
