package loopring

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/kaifufi/loopring-sdk-go/chain"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by LoadConfig
const EnvPrefix = "LOOPRING"

// ClientConfig holds configuration for creating a Client and its signer
type ClientConfig struct {
	// FeeRecipient receives ring fees; defaults to the signer address
	FeeRecipient string `mapstructure:"fee_recipient"`

	// Signer source: a hex private key, or a keystore account
	PrivateKey  string `mapstructure:"private_key"`
	KeystoreDir string `mapstructure:"keystore_dir"`
	Account     string `mapstructure:"account"`
	Passphrase  string `mapstructure:"passphrase"`
}

// LoadConfig reads configuration from an optional file and LOOPRING_* environment
// variables. Variables from envFiles are loaded first without overriding the
// process environment.
func LoadConfig(path string, envFiles ...string) (ClientConfig, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(errors.Cause(err)) {
			return ClientConfig{}, errors.Wrapf(err, "load env file %s", f)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("fee_recipient", "")
	v.SetDefault("private_key", "")
	v.SetDefault("keystore_dir", "")
	v.SetDefault("account", "")
	v.SetDefault("passphrase", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return ClientConfig{}, errors.Wrapf(err, "read config %s", path)
		}
	}

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return ClientConfig{}, errors.Wrap(err, "decode config")
	}
	return cfg, nil
}

// NewSigner builds the signer described by config. The returned release func
// zeroes or locks the key and must be called when signing is done. Keystore
// signers for the same directory share one keystore (and its directory watcher),
// so releasing one locks the account for all of them.
func NewSigner(config ClientConfig) (chain.Signer, func(), error) {
	switch {
	case config.PrivateKey != "":
		signer, err := chain.NewPrivateKeySignerFromHex(config.PrivateKey)
		if err != nil {
			return nil, nil, invalidParam("private_key", err)
		}
		return signer, signer.Close, nil

	case config.KeystoreDir != "":
		if !common.IsHexAddress(config.Account) {
			return nil, nil, &InvalidParamError{Message: "account must be a hex address when keystore_dir is set"}
		}
		ks := keystoreFor(config.KeystoreDir)
		signer, err := chain.NewKeystoreSigner(ks, common.HexToAddress(config.Account))
		if err != nil {
			return nil, nil, invalidParam("account", err)
		}
		if err := signer.Unlock(config.Passphrase); err != nil {
			return nil, nil, err
		}
		return signer, func() { _ = signer.Lock() }, nil
	}

	return nil, nil, ErrSignerRequired
}

var (
	keystoresMu sync.Mutex
	keystores   = make(map[string]*keystore.KeyStore)
)

// keystoreFor returns the process-wide keystore for dir. Each keystore runs a
// watcher goroutine for its directory that is never stopped.
func keystoreFor(dir string) *keystore.KeyStore {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	keystoresMu.Lock()
	defer keystoresMu.Unlock()

	ks, ok := keystores[dir]
	if !ok {
		ks = keystore.NewKeyStore(dir, keystore.StandardScryptN, keystore.StandardScryptP)
		keystores[dir] = ks
	}
	return ks
}
