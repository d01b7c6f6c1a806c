// Command loopring-sign computes Loopring order and ring hashes and signs them
// with a configured key, printing relay-ready JSON.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	loopring "github.com/kaifufi/loopring-sdk-go"
	"github.com/kaifufi/loopring-sdk-go/chain"
	"github.com/kaifufi/loopring-sdk-go/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	configFile string
	envFile    string
	logLevel   string
)

func main() {
	root := &cobra.Command{
		Use:           "loopring-sign",
		Short:         "Hash and sign Loopring orders and rings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := log.DefaultConfig(logLevel)
			if err != nil {
				return err
			}
			_, err = log.Initialize(cfg)
			return err
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, toml or json)")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with LOOPRING_* variables")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level")

	root.AddCommand(orderHashCmd(), signOrderCmd(), ringHashCmd(), recoverCmd(), toWeiCmd())

	err := root.Execute()
	_ = log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func orderHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "order-hash <order.json>",
		Short: "Print the EIP712 hash and packed preimage of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readOrder(args[0])
			if err != nil {
				return err
			}
			order, err := data.Normalize()
			if err != nil {
				return err
			}
			hash, err := order.Hash()
			if err != nil {
				return err
			}
			packed, err := loopring.PackedOrder(order)
			if err != nil {
				return err
			}
			return printJSON(map[string]string{"hash": hash.Hex(), "packed": packed})
		},
	}
}

func signOrderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sign-order <order.json>",
		Short: "Sign an order with the configured key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readOrder(args[0])
			if err != nil {
				return err
			}

			client, release, err := newClient()
			if err != nil {
				return err
			}
			defer release()

			signed, err := client.SignOrder(data)
			if err != nil {
				return err
			}
			submission, err := loopring.NewOrderSubmission(signed)
			if err != nil {
				return err
			}
			return printJSON(submission)
		},
	}
}

func ringHashCmd() *cobra.Command {
	var (
		feeRecipient  string
		feeSelections string
	)
	cmd := &cobra.Command{
		Use:   "ring-hash <orderHash>...",
		Short: "Combine order hashes into a ring hash",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hashes := make([][]byte, len(args))
			for i, arg := range args {
				h, err := hexutil.Decode(arg)
				if err != nil {
					return errors.Wrapf(err, "order hash %d", i)
				}
				hashes[i] = h
			}
			if !common.IsHexAddress(feeRecipient) {
				return errors.Errorf("fee recipient %q is not an address", feeRecipient)
			}
			flags, err := parseFlags(feeSelections)
			if err != nil {
				return err
			}

			hash, err := chain.HashRing(hashes, common.HexToAddress(feeRecipient), flags)
			if err != nil {
				return err
			}
			fmt.Println(hash.Hex())
			return nil
		},
	}
	cmd.Flags().StringVar(&feeRecipient, "fee-recipient", "", "address receiving the ring fees")
	cmd.Flags().StringVar(&feeSelections, "fee-selections", "", "comma separated 0/1 flags, one per order")
	return cmd
}

func recoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recover <hash> <signature>",
		Short: "Recover the signer of a personal-message signature",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := hexutil.Decode(args[0])
			if err != nil || len(hash) != common.HashLength {
				return errors.New("hash must be 32 hex bytes")
			}
			sig, err := chain.SignatureFromHex(args[1])
			if err != nil {
				return err
			}
			addr, err := chain.Recover(common.BytesToHash(hash), sig)
			if err != nil {
				return err
			}
			fmt.Println(addr.Hex())
			return nil
		},
	}
}

func toWeiCmd() *cobra.Command {
	var decimals int
	cmd := &cobra.Command{
		Use:   "to-wei <amount>",
		Short: "Convert a token amount to base units for amountS/amountB",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wei, err := loopring.ParseTokenAmount(args[0], decimals)
			if err != nil {
				return err
			}
			fmt.Println(wei.String())
			return nil
		},
	}
	cmd.Flags().IntVar(&decimals, "decimals", loopring.MaxDecimals, "token decimals")
	return cmd
}

func newClient() (*loopring.Client, func(), error) {
	cfg, err := loopring.LoadConfig(configFile, envFile)
	if err != nil {
		return nil, nil, err
	}
	signer, release, err := loopring.NewSigner(cfg)
	if err != nil {
		return nil, nil, err
	}
	client, err := loopring.NewClient(cfg, signer)
	if err != nil {
		release()
		return nil, nil, err
	}
	return client, release, nil
}

func readOrder(path string) (*chain.OrderData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data chain.OrderData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return &data, nil
}

func parseFlags(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	flags := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Wrapf(err, "fee selection %d", i)
		}
		flags[i] = n
	}
	return flags, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
