package loopring

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/loopring-sdk-go/chain"
	"github.com/kaifufi/loopring-sdk-go/log"
	"github.com/pkg/errors"
)

// Client is the main SDK client. It hashes and signs orders and rings for
// submission to a relay; sending them is left to the caller's transport.
type Client struct {
	signer       chain.Signer
	builder      *chain.OrderBuilder
	feeRecipient common.Address
}

// NewClient creates a new client signing with signer
func NewClient(config ClientConfig, signer chain.Signer) (*Client, error) {
	if signer == nil {
		return nil, ErrSignerRequired
	}

	feeRecipient, err := parseAddress("fee_recipient", config.FeeRecipient)
	if err != nil {
		return nil, err
	}
	if feeRecipient == (common.Address{}) {
		feeRecipient = signer.Address()
	}

	builder, err := chain.NewOrderBuilder(signer)
	if err != nil {
		return nil, errors.Wrap(err, "create order builder")
	}

	log.Debugw("client created", "signer", signer.Address().Hex(), "feeRecipient", feeRecipient.Hex())

	return &Client{
		signer:       signer,
		builder:      builder,
		feeRecipient: feeRecipient,
	}, nil
}

// Address returns the signer address
func (c *Client) Address() common.Address {
	return c.signer.Address()
}

// FeeRecipient returns the address rings signed by this client pay fees to
func (c *Client) FeeRecipient() common.Address {
	return c.feeRecipient
}

// OrderHash returns the hash identifying data on the relay and on chain
func (c *Client) OrderHash(data *chain.OrderData) (common.Hash, error) {
	hash, err := chain.HashOrderData(data)
	if err != nil {
		return common.Hash{}, invalidParam("invalid order", err)
	}
	return hash, nil
}

// SignOrder normalizes, hashes and signs an order owned by the client signer
func (c *Client) SignOrder(data *chain.OrderData) (*chain.SignedOrder, error) {
	order, err := c.builder.BuildOrder(data)
	if err != nil {
		return nil, invalidParam("invalid order", err)
	}

	signed, err := c.builder.SignOrder(order)
	if err != nil {
		log.Errorw("sign order failed", "owner", order.Owner.Hex(), "error", err)
		return nil, err
	}

	log.Debugw("order signed", "orderHash", signed.Hash.Hex(), "owner", order.Owner.Hex())
	return signed, nil
}

// VerifyOrder checks a signed order received from elsewhere before it is
// placed in a ring
func (c *Client) VerifyOrder(so *chain.SignedOrder) error {
	if err := chain.VerifyOrder(so); err != nil {
		return invalidParam("order verification failed", err)
	}
	return nil
}

// NewRing assembles verified orders into a ring paying fees to the client fee
// recipient. feeSelections may be nil.
func (c *Client) NewRing(orders []*chain.SignedOrder, feeSelections []int) (*chain.Ring, error) {
	if len(orders) == 0 {
		return nil, invalidParam("ring has no orders", chain.ErrEmptyRing)
	}
	if len(orders) > chain.MaxRingOrders {
		return nil, invalidParam(fmt.Sprintf("ring has %d orders, at most %d", len(orders), chain.MaxRingOrders), chain.ErrOverflow)
	}
	if feeSelections != nil && len(feeSelections) != len(orders) {
		return nil, invalidParam(fmt.Sprintf("%d fee selections for %d orders", len(feeSelections), len(orders)), chain.ErrLengthMismatch)
	}

	for i, so := range orders {
		if err := chain.VerifyOrder(so); err != nil {
			return nil, invalidParam(fmt.Sprintf("order %d", i), err)
		}
	}

	return &chain.Ring{
		Orders:        orders,
		FeeRecipient:  c.feeRecipient,
		FeeSelections: feeSelections,
	}, nil
}

// RingHash returns the hash of ring
func (c *Client) RingHash(ring *chain.Ring) (common.Hash, error) {
	hash, err := ring.Hash()
	if err != nil {
		return common.Hash{}, invalidParam("invalid ring", err)
	}
	return hash, nil
}

// SignRing signs ring as miner
func (c *Client) SignRing(ring *chain.Ring) (*chain.SignedRing, error) {
	signed, err := ring.Sign(c.signer)
	if err != nil {
		return nil, invalidParam("invalid ring", err)
	}

	log.Debugw("ring signed", "ringHash", signed.Hash.Hex(), "miner", signed.Miner.Hex(), "orders", len(ring.Orders))
	return signed, nil
}

// AuthorizeRing adds dual-auth signatures for the orders that require them
func (c *Client) AuthorizeRing(ring *chain.SignedRing, authSigners ...chain.Signer) error {
	if err := ring.Authorize(authSigners...); err != nil {
		log.Warnw("ring authorization incomplete", "ringHash", ring.Hash.Hex(), "error", err)
		return err
	}
	return nil
}

// VerifyRing checks every hash and signature of a signed ring
func (c *Client) VerifyRing(ring *chain.SignedRing) error {
	if err := chain.VerifyRing(ring); err != nil {
		return invalidParam("ring verification failed", err)
	}
	return nil
}
