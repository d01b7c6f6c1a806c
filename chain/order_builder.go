package chain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// OrderBuilder builds and signs orders
type OrderBuilder struct {
	signer Signer
}

// NewOrderBuilder creates a new OrderBuilder signing with signer
func NewOrderBuilder(signer Signer) (*OrderBuilder, error) {
	if signer == nil {
		return nil, errors.New("signer is required")
	}
	return &OrderBuilder{signer: signer}, nil
}

// BuildOrder validates data and returns the normalized order
func (ob *OrderBuilder) BuildOrder(data *OrderData) (*Order, error) {
	if data == nil {
		return nil, errors.Wrap(ErrSchemaMismatch, "nil order data")
	}

	order, err := data.Normalize()
	if err != nil {
		return nil, err
	}

	if err := ob.validateOrder(order); err != nil {
		return nil, err
	}
	return order, nil
}

// BuildSignedOrder builds, hashes and signs an order
func (ob *OrderBuilder) BuildSignedOrder(data *OrderData) (*SignedOrder, error) {
	order, err := ob.BuildOrder(data)
	if err != nil {
		return nil, err
	}
	return ob.SignOrder(order)
}

// SignOrder hashes the order and signs the hash with the owner key
func (ob *OrderBuilder) SignOrder(order *Order) (*SignedOrder, error) {
	hash, err := HashOrder(order)
	if err != nil {
		return nil, err
	}

	signature, err := ob.signer.SignHash(hash)
	if err != nil {
		return nil, errors.WithMessage(err, "sign order")
	}

	return &SignedOrder{
		Order:     order,
		Hash:      hash,
		Signature: signature,
	}, nil
}

// VerifyOrder recomputes the order hash and checks the signature was made by the owner
func VerifyOrder(so *SignedOrder) error {
	if so == nil || so.Order == nil {
		return errors.Wrap(ErrSchemaMismatch, "nil signed order")
	}

	hash, err := HashOrder(so.Order)
	if err != nil {
		return err
	}
	if hash != so.Hash {
		return errors.Errorf("order hash mismatch: have %s, computed %s", so.Hash.Hex(), hash.Hex())
	}

	signer, err := Recover(hash, so.Signature)
	if err != nil {
		return err
	}
	if signer != so.Order.Owner {
		return errors.Wrapf(ErrInvalidSignature, "signed by %s, owner is %s", signer.Hex(), so.Order.Owner.Hex())
	}
	return nil
}

func (ob *OrderBuilder) validateOrder(order *Order) error {
	if order.Owner == (common.Address{}) {
		return errors.Wrap(ErrSchemaMismatch, "owner is the zero address")
	}
	if order.Owner != ob.signer.Address() {
		return errors.Errorf("owner %s does not match signer %s", order.Owner.Hex(), ob.signer.Address().Hex())
	}
	if order.TokenS == order.TokenB {
		return errors.Errorf("tokenS and tokenB are both %s", order.TokenS.Hex())
	}
	if order.AmountS.Sign() == 0 || order.AmountB.Sign() == 0 {
		return errors.New("amountS and amountB must be positive")
	}
	return nil
}
