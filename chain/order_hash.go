package chain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// EIP712 domain of the Loopring v2 protocol contracts
const (
	EIP712DomainName    = "Loopring Protocol"
	EIP712DomainVersion = "2"
)

var (
	// EIP712Domain(string name,string version)
	DomainType = StructType{
		Name: "EIP712Domain",
		Fields: []Field{
			{Name: "name", Type: TypeString},
			{Name: "version", Type: TypeString},
		},
	}

	// Order(address owner,address tokenS,address tokenB,uint amountS,uint amountB,address dualAuthAddr,address broker,address orderInterceptor,address wallet,uint validSince,uint validUntil,bool allOrNone,address tokenRecipient,uint16 walletSplitPercentage,address feeToken,uint feeAmount,uint16 feePercentage,uint16 tokenSFeePercentage,uint16 tokenBFeePercentage)
	OrderType = StructType{
		Name: "Order",
		Fields: []Field{
			{Name: "owner", Type: TypeAddress},
			{Name: "tokenS", Type: TypeAddress},
			{Name: "tokenB", Type: TypeAddress},
			{Name: "amountS", Type: TypeUint},
			{Name: "amountB", Type: TypeUint},
			{Name: "dualAuthAddr", Type: TypeAddress, Default: common.Address{}},
			{Name: "broker", Type: TypeAddress, Default: common.Address{}},
			{Name: "orderInterceptor", Type: TypeAddress, Default: common.Address{}},
			{Name: "wallet", Type: TypeAddress, Default: common.Address{}},
			{Name: "validSince", Type: TypeUint},
			{Name: "validUntil", Type: TypeUint},
			{Name: "allOrNone", Type: TypeBool},
			{Name: "tokenRecipient", Type: TypeAddress},
			{Name: "walletSplitPercentage", Type: TypeUint16},
			{Name: "feeToken", Type: TypeAddress},
			{Name: "feeAmount", Type: TypeUint},
			{Name: "feePercentage", Type: TypeUint16},
			{Name: "tokenSFeePercentage", Type: TypeUint16},
			{Name: "tokenBFeePercentage", Type: TypeUint16},
		},
	}

	OrderSchema = TypedSchema{Domain: DomainType, Primary: OrderType}

	// LoopringDomain holds the constant domain values
	LoopringDomain = map[string]interface{}{
		"name":    EIP712DomainName,
		"version": EIP712DomainVersion,
	}
)

var loopringDomainSeparator = mustDomainSeparator()

func mustDomainSeparator() common.Hash {
	separator, err := OrderSchema.DomainSeparator(LoopringDomain)
	if err != nil {
		panic("failed to hash loopring domain: " + err.Error())
	}
	return separator
}

// DomainSeparator returns the separator of the Loopring domain
func DomainSeparator() common.Hash {
	return loopringDomainSeparator
}

// Values returns the order as an EIP712 value map keyed by field name
func (o *Order) Values() map[string]interface{} {
	return map[string]interface{}{
		"owner":                 o.Owner,
		"tokenS":                o.TokenS,
		"tokenB":                o.TokenB,
		"amountS":               o.AmountS,
		"amountB":               o.AmountB,
		"dualAuthAddr":          o.DualAuthAddr,
		"broker":                o.Broker,
		"orderInterceptor":      o.OrderInterceptor,
		"wallet":                o.Wallet,
		"validSince":            o.ValidSince,
		"validUntil":            o.ValidUntil,
		"allOrNone":             o.AllOrNone,
		"tokenRecipient":        o.TokenRecipient,
		"walletSplitPercentage": o.WalletSplitPercentage,
		"feeToken":              o.FeeToken,
		"feeAmount":             o.FeeAmount,
		"feePercentage":         o.FeePercentage,
		"tokenSFeePercentage":   o.TokenSFeePercentage,
		"tokenBFeePercentage":   o.TokenBFeePercentage,
	}
}

// StructHash computes the EIP712 struct hash of the order
func (o *Order) StructHash() (common.Hash, error) {
	return OrderType.HashStruct(o.Values())
}

// PackOrder returns the EIP712 preimage of the order:
// "\x19\x01" ++ domainSeparator ++ structHash
func PackOrder(order *Order) ([]byte, error) {
	if order == nil {
		return nil, errors.Wrap(ErrSchemaMismatch, "nil order")
	}
	structHash, err := order.StructHash()
	if err != nil {
		return nil, err
	}
	return TypedDataPreimage(loopringDomainSeparator, structHash), nil
}

// HashOrder computes the order hash. It is both the order identifier on the
// relay and the digest the protocol contract checks the owner signature against.
func HashOrder(order *Order) (common.Hash, error) {
	preimage, err := PackOrder(order)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(preimage), nil
}

// Hash is shorthand for HashOrder(o)
func (o *Order) Hash() (common.Hash, error) {
	return HashOrder(o)
}

// HashOrderData normalizes a raw order and hashes it
func HashOrderData(data *OrderData) (common.Hash, error) {
	if data == nil {
		return common.Hash{}, errors.Wrap(ErrSchemaMismatch, "nil order data")
	}
	order, err := data.Normalize()
	if err != nil {
		return common.Hash{}, err
	}
	return HashOrder(order)
}
