package chain

import (
	"crypto/ecdsa"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Signer produces personal-message signatures for order and ring hashes
type Signer interface {
	Address() common.Address
	SignHash(hash common.Hash) (*Signature, error)
}

// PrivateKeySigner signs with an in-memory key. Close zeroes the key.
type PrivateKeySigner struct {
	mu      sync.RWMutex
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewPrivateKeySigner parses a raw 32-byte private key. The signer keeps its
// own copy of the scalar; privateKey can be cleared by the caller afterwards.
func NewPrivateKeySigner(privateKey []byte) (*PrivateKeySigner, error) {
	key, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKey, err.Error())
	}
	return &PrivateKeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// NewPrivateKeySignerFromHex parses a hex private key with or without the 0x prefix
func NewPrivateKeySignerFromHex(privateKeyHex string) (*PrivateKeySigner, error) {
	privateKeyHex = strings.TrimSpace(privateKeyHex)
	if !strings.HasPrefix(privateKeyHex, "0x") && !strings.HasPrefix(privateKeyHex, "0X") {
		privateKeyHex = "0x" + privateKeyHex
	}
	raw, err := hexutil.Decode(privateKeyHex)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKey, "malformed hex")
	}
	defer clearBytes(raw)

	return NewPrivateKeySigner(raw)
}

// Address returns the address derived from the key
func (s *PrivateKeySigner) Address() common.Address {
	return s.address
}

// SignHash signs hash with the personal message prefix
func (s *PrivateKeySigner) SignHash(hash common.Hash) (*Signature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.key == nil {
		return nil, errors.Wrap(ErrInvalidKey, "signer closed")
	}
	return SignWithKey(hash, s.key)
}

// Close zeroes the key. Later SignHash calls fail with ErrInvalidKey.
func (s *PrivateKeySigner) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key != nil {
		zeroKey(s.key)
		s.key = nil
	}
}

// KeystoreSigner signs with an account held in an encrypted keystore directory.
// The account has to be unlocked before SignHash succeeds.
type KeystoreSigner struct {
	ks      *keystore.KeyStore
	account accounts.Account
}

// NewKeystoreSigner binds address in ks
func NewKeystoreSigner(ks *keystore.KeyStore, address common.Address) (*KeystoreSigner, error) {
	if ks == nil {
		return nil, errors.New("nil keystore")
	}
	if !ks.HasAddress(address) {
		return nil, errors.Errorf("account %s not found in keystore", address.Hex())
	}
	return &KeystoreSigner{ks: ks, account: accounts.Account{Address: address}}, nil
}

// Unlock decrypts the account key until Lock is called
func (s *KeystoreSigner) Unlock(passphrase string) error {
	if err := s.ks.Unlock(s.account, passphrase); err != nil {
		return errors.Wrapf(err, "unlock %s", s.account.Address.Hex())
	}
	return nil
}

// Lock removes the decrypted key from memory
func (s *KeystoreSigner) Lock() error {
	return s.ks.Lock(s.account.Address)
}

// Address returns the keystore account address
func (s *KeystoreSigner) Address() common.Address {
	return s.account.Address
}

// SignHash signs hash with the personal message prefix
func (s *KeystoreSigner) SignHash(hash common.Hash) (*Signature, error) {
	sig, err := s.ks.SignHash(s.account, PersonalMessageHash(hash).Bytes())
	if err != nil {
		return nil, errors.Wrapf(err, "keystore sign with %s", s.account.Address.Hex())
	}
	return signatureFromRecoverable(sig), nil
}

func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
