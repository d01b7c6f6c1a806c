package chain

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// PersonalMessagePrefix is prepended to every 32-byte hash signed for on-chain recovery
const PersonalMessagePrefix = "\x19Ethereum Signed Message:\n32"

// SignatureLength is the length of r ++ s ++ v
const SignatureLength = 65

// Signature is an ECDSA signature over a personal-message-prefixed hash.
// V is 27 or 28, the form the protocol contract passes to ecrecover.
type Signature struct {
	V uint8       `json:"v"`
	R common.Hash `json:"r"`
	S common.Hash `json:"s"`
}

// PersonalMessageHash computes keccak256("\x19Ethereum Signed Message:\n32" ++ hash)
func PersonalMessageHash(hash common.Hash) common.Hash {
	return crypto.Keccak256Hash([]byte(PersonalMessagePrefix), hash.Bytes())
}

// Sign signs hash with a raw 32-byte secp256k1 private key. The key is only
// used for the duration of the call; the caller still owns and clears privateKey.
func Sign(hash common.Hash, privateKey []byte) (*Signature, error) {
	key, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKey, err.Error())
	}
	defer zeroKey(key)

	return SignWithKey(hash, key)
}

// SignWithKey signs hash with an already parsed private key
func SignWithKey(hash common.Hash, key *ecdsa.PrivateKey) (*Signature, error) {
	if key == nil || key.D == nil || key.D.Sign() <= 0 || key.D.Cmp(crypto.S256().Params().N) >= 0 {
		return nil, ErrInvalidKey
	}

	sig, err := crypto.Sign(PersonalMessageHash(hash).Bytes(), key)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKey, err.Error())
	}
	return signatureFromRecoverable(sig), nil
}

// Recover returns the address that produced sig over hash
func Recover(hash common.Hash, sig *Signature) (common.Address, error) {
	raw, err := sig.recoverable()
	if err != nil {
		return common.Address{}, err
	}

	pub, err := crypto.SigToPub(PersonalMessageHash(hash).Bytes(), raw)
	if err != nil {
		return common.Address{}, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// SignatureFromBytes parses r ++ s ++ v. v may be 0/1 or 27/28.
func SignatureFromBytes(b []byte) (*Signature, error) {
	if len(b) != SignatureLength {
		return nil, errors.Wrapf(ErrInvalidSignature, "length %d", len(b))
	}

	sig := &Signature{
		V: b[64],
		R: common.BytesToHash(b[0:32]),
		S: common.BytesToHash(b[32:64]),
	}
	if sig.V < 27 {
		sig.V += 27
	}
	if _, err := sig.recoverable(); err != nil {
		return nil, err
	}
	return sig, nil
}

// SignatureFromHex parses a 0x-prefixed 65-byte signature
func SignatureFromHex(s string) (*Signature, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	return SignatureFromBytes(b)
}

// Bytes returns r ++ s ++ v
func (s *Signature) Bytes() []byte {
	b := make([]byte, SignatureLength)
	copy(b[0:32], s.R.Bytes())
	copy(b[32:64], s.S.Bytes())
	b[64] = s.V
	return b
}

// Hex returns the 0x-prefixed hex form of Bytes
func (s *Signature) Hex() string {
	return hexutil.Encode(s.Bytes())
}

// recoverable validates the signature values and returns r ++ s ++ recoveryID
func (s *Signature) recoverable() ([]byte, error) {
	if s == nil {
		return nil, errors.Wrap(ErrInvalidSignature, "nil signature")
	}

	var recoveryID byte
	switch s.V {
	case 27, 28:
		recoveryID = s.V - 27
	case 0, 1:
		recoveryID = s.V
	default:
		return nil, errors.Wrapf(ErrInvalidSignature, "v is %d", s.V)
	}

	r := new(big.Int).SetBytes(s.R.Bytes())
	sv := new(big.Int).SetBytes(s.S.Bytes())
	if !crypto.ValidateSignatureValues(recoveryID, r, sv, true) {
		return nil, errors.Wrap(ErrInvalidSignature, "r or s out of range")
	}

	raw := s.Bytes()
	raw[64] = recoveryID
	return raw, nil
}

func signatureFromRecoverable(sig []byte) *Signature {
	return &Signature{
		V: sig[64] + 27,
		R: common.BytesToHash(sig[0:32]),
		S: common.BytesToHash(sig[32:64]),
	}
}

// zeroKey clears the private scalar in place
func zeroKey(k *ecdsa.PrivateKey) {
	b := k.D.Bits()
	for i := range b {
		b[i] = 0
	}
}
