package loopring

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/kaifufi/loopring-sdk-go/chain"
)

// OrderSubmission is the JSON form of a signed order handed to the relay
type OrderSubmission struct {
	chain.OrderData
	Hash string `json:"hash"`
	V    uint8  `json:"v"`
	R    string `json:"r"`
	S    string `json:"s"`
}

// RingSubmission is the JSON form of a signed ring handed to the relay
type RingSubmission struct {
	Orders         []*OrderSubmission `json:"orders"`
	FeeRecipient   string             `json:"feeRecipient"`
	FeeSelections  uint16             `json:"feeSelections"`
	Hash           string             `json:"ringHash"`
	Miner          string             `json:"miner"`
	V              uint8              `json:"v"`
	R              string             `json:"r"`
	S              string             `json:"s"`
	AuthSignatures []*chain.Signature `json:"authSignatures"`
}

// NewOrderSubmission converts a signed order for the relay
func NewOrderSubmission(so *chain.SignedOrder) (*OrderSubmission, error) {
	if so == nil || so.Order == nil || so.Signature == nil {
		return nil, &InvalidParamError{Message: "order is not signed"}
	}
	return &OrderSubmission{
		OrderData: *so.Order.Data(),
		Hash:      so.Hash.Hex(),
		V:         so.Signature.V,
		R:         so.Signature.R.Hex(),
		S:         so.Signature.S.Hex(),
	}, nil
}

// NewRingSubmission converts a signed ring for the relay
func NewRingSubmission(sr *chain.SignedRing) (*RingSubmission, error) {
	if sr == nil || sr.Ring == nil || sr.Signature == nil {
		return nil, &InvalidParamError{Message: "ring is not signed"}
	}

	flags := sr.Ring.FeeSelections
	if flags == nil {
		flags = make([]int, len(sr.Ring.Orders))
	}
	mask, err := chain.EncodeFeeSelections(flags)
	if err != nil {
		return nil, invalidParam("invalid fee selections", err)
	}

	orders := make([]*OrderSubmission, len(sr.Ring.Orders))
	for i, so := range sr.Ring.Orders {
		if orders[i], err = NewOrderSubmission(so); err != nil {
			return nil, err
		}
	}

	return &RingSubmission{
		Orders:         orders,
		FeeRecipient:   sr.Ring.FeeRecipient.Hex(),
		FeeSelections:  mask,
		Hash:           sr.Hash.Hex(),
		Miner:          sr.Miner.Hex(),
		V:              sr.Signature.V,
		R:              sr.Signature.R.Hex(),
		S:              sr.Signature.S.Hex(),
		AuthSignatures: sr.AuthSignatures,
	}, nil
}

// PackedOrder returns the hex EIP712 preimage of order, the value the relay
// hashes to get the order hash
func PackedOrder(order *chain.Order) (string, error) {
	packed, err := chain.PackOrder(order)
	if err != nil {
		return "", invalidParam("invalid order", err)
	}
	return hexutil.Encode(packed), nil
}
