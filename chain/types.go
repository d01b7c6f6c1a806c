package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// OrderData is a raw order as a caller or relay hands it over. Addresses and
// integers are strings; integers may be decimal or 0x-prefixed hex.
// DualAuthAddr, Broker, OrderInterceptor and Wallet are optional.
type OrderData struct {
	Owner                 string `json:"owner"`
	TokenS                string `json:"tokenS"`
	TokenB                string `json:"tokenB"`
	AmountS               string `json:"amountS"`
	AmountB               string `json:"amountB"`
	DualAuthAddr          string `json:"dualAuthAddr,omitempty"`
	Broker                string `json:"broker,omitempty"`
	OrderInterceptor      string `json:"orderInterceptor,omitempty"`
	Wallet                string `json:"wallet,omitempty"`
	ValidSince            string `json:"validSince"`
	ValidUntil            string `json:"validUntil"`
	AllOrNone             bool   `json:"allOrNone"`
	TokenRecipient        string `json:"tokenRecipient"`
	WalletSplitPercentage uint16 `json:"walletSplitPercentage"`
	FeeToken              string `json:"feeToken"`
	FeeAmount             string `json:"feeAmount"`
	FeePercentage         uint16 `json:"feePercentage"`
	TokenSFeePercentage   uint16 `json:"tokenSFeePercentage"`
	TokenBFeePercentage   uint16 `json:"tokenBFeePercentage"`
}

// Order is a validated Loopring order. Field order mirrors the on-chain Order struct.
type Order struct {
	Owner                 common.Address
	TokenS                common.Address
	TokenB                common.Address
	AmountS               *big.Int
	AmountB               *big.Int
	DualAuthAddr          common.Address
	Broker                common.Address
	OrderInterceptor      common.Address
	Wallet                common.Address
	ValidSince            *big.Int
	ValidUntil            *big.Int
	AllOrNone             bool
	TokenRecipient        common.Address
	WalletSplitPercentage uint16
	FeeToken              common.Address
	FeeAmount             *big.Int
	FeePercentage         uint16
	TokenSFeePercentage   uint16
	TokenBFeePercentage   uint16
}

// SignedOrder is an order with its hash and the owner's signature over it
type SignedOrder struct {
	Order     *Order
	Hash      common.Hash
	Signature *Signature
}

// Ring is a set of orders submitted together for settlement. FeeSelections[i]
// is the fee-token flag of Orders[i]; nil means every order pays in the fee token.
type Ring struct {
	Orders        []*SignedOrder
	FeeRecipient  common.Address
	FeeSelections []int
}

// SignedRing is a ring with its hash, the miner signature and, for orders with a
// dual-auth address, the auth signatures over the ring hash (aligned with Ring.Orders).
type SignedRing struct {
	Ring           *Ring
	Hash           common.Hash
	Miner          common.Address
	Signature      *Signature
	AuthSignatures []*Signature
}

// Normalize validates the raw fields and converts them to an Order. The optional
// addresses become the zero address when empty, and empty validSince, validUntil
// and feeAmount become 0.
func (d *OrderData) Normalize() (*Order, error) {
	var err error
	order := &Order{
		AllOrNone:             d.AllOrNone,
		WalletSplitPercentage: d.WalletSplitPercentage,
		FeePercentage:         d.FeePercentage,
		TokenSFeePercentage:   d.TokenSFeePercentage,
		TokenBFeePercentage:   d.TokenBFeePercentage,
	}

	required := []struct {
		name  string
		value string
		dst   *common.Address
	}{
		{"owner", d.Owner, &order.Owner},
		{"tokenS", d.TokenS, &order.TokenS},
		{"tokenB", d.TokenB, &order.TokenB},
		{"tokenRecipient", d.TokenRecipient, &order.TokenRecipient},
		{"feeToken", d.FeeToken, &order.FeeToken},
	}
	for _, f := range required {
		if *f.dst, err = parseAddress(f.name, f.value, false); err != nil {
			return nil, err
		}
	}

	optional := []struct {
		name  string
		value string
		dst   *common.Address
	}{
		{"dualAuthAddr", d.DualAuthAddr, &order.DualAuthAddr},
		{"broker", d.Broker, &order.Broker},
		{"orderInterceptor", d.OrderInterceptor, &order.OrderInterceptor},
		{"wallet", d.Wallet, &order.Wallet},
	}
	for _, f := range optional {
		if *f.dst, err = parseAddress(f.name, f.value, true); err != nil {
			return nil, err
		}
	}

	amounts := []struct {
		name     string
		value    string
		dst      **big.Int
		required bool
	}{
		{"amountS", d.AmountS, &order.AmountS, true},
		{"amountB", d.AmountB, &order.AmountB, true},
		{"validSince", d.ValidSince, &order.ValidSince, false},
		{"validUntil", d.ValidUntil, &order.ValidUntil, false},
		{"feeAmount", d.FeeAmount, &order.FeeAmount, false},
	}
	for _, f := range amounts {
		if *f.dst, err = parseUint(f.name, f.value, f.required); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// Data converts the order back to its raw form with hex-encoded integers
func (o *Order) Data() *OrderData {
	return &OrderData{
		Owner:                 o.Owner.Hex(),
		TokenS:                o.TokenS.Hex(),
		TokenB:                o.TokenB.Hex(),
		AmountS:               encodeBig(o.AmountS),
		AmountB:               encodeBig(o.AmountB),
		DualAuthAddr:          o.DualAuthAddr.Hex(),
		Broker:                o.Broker.Hex(),
		OrderInterceptor:      o.OrderInterceptor.Hex(),
		Wallet:                o.Wallet.Hex(),
		ValidSince:            encodeBig(o.ValidSince),
		ValidUntil:            encodeBig(o.ValidUntil),
		AllOrNone:             o.AllOrNone,
		TokenRecipient:        o.TokenRecipient.Hex(),
		WalletSplitPercentage: o.WalletSplitPercentage,
		FeeToken:              o.FeeToken.Hex(),
		FeeAmount:             encodeBig(o.FeeAmount),
		FeePercentage:         o.FeePercentage,
		TokenSFeePercentage:   o.TokenSFeePercentage,
		TokenBFeePercentage:   o.TokenBFeePercentage,
	}
}

func encodeBig(n *big.Int) string {
	if n == nil {
		return ""
	}
	return hexutil.EncodeBig(n)
}

func parseAddress(name, value string, optional bool) (common.Address, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == ZeroAddressLiteral {
		if optional {
			return common.Address{}, nil
		}
		return common.Address{}, errors.Wrapf(ErrSchemaMismatch, "%s is required", name)
	}
	addr, err := toAddress(value)
	if err != nil {
		return common.Address{}, errors.WithMessage(err, name)
	}
	return addr, nil
}

func parseUint(name, value string, required bool) (*big.Int, error) {
	if strings.TrimSpace(value) == "" {
		if required {
			return nil, errors.Wrapf(ErrSchemaMismatch, "%s is required", name)
		}
		return big.NewInt(0), nil
	}
	n, err := ParseBigInt(value)
	if err != nil {
		return nil, errors.Wrapf(ErrSchemaMismatch, "%s: %v", name, err)
	}
	if _, err := bigToUint256(n); err != nil {
		return nil, errors.WithMessage(err, name)
	}
	return n, nil
}
