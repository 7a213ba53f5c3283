package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/everFinance/xnames/sdk"
	"github.com/spf13/cobra"
)

var serverUrl string

func printJSON(v interface{}) error {
	by, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(by))
	return nil
}

var priceCmd = &cobra.Command{
	Use:   "price <length>",
	Short: "registration price of a name length",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		length, err := strconv.ParseUint(args[0], 10, 8)
		if err != nil {
			return err
		}
		p, err := sdk.New(serverUrl).GetPrice(uint8(length))
		if err != nil {
			return err
		}
		return printJSON(p)
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token <tokenId>",
	Short: "domain and royalty of a token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := sdk.New(serverUrl).GetTokenInfo(args[0])
		if err != nil {
			return err
		}
		if info == nil {
			fmt.Println("token not found")
			return nil
		}
		return printJSON(info)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <tokenId>",
	Short: "subscription status of a token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := sdk.New(serverUrl).GetSubscriptionStatus(args[0])
		if err != nil {
			return err
		}
		if st == nil {
			fmt.Println("token not found")
			return nil
		}
		return printJSON(st)
	},
}

// initCmd seeds the registry with the configured state, signed by the deployer key.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "initialize the registry with the configured grace, beneficiary and royalty",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sdk.NewSDK(serverUrl, cfg.DeployerKey)
		if err != nil {
			return err
		}
		beneficiary := s.Address()
		if common.IsHexAddress(cfg.Beneficiary) {
			beneficiary = common.HexToAddress(cfg.Beneficiary)
		}
		st, err := s.Init(cfg.Grace, beneficiary, cfg.Royalty)
		if err != nil {
			return err
		}
		return printJSON(st)
	},
}

func init() {
	for _, c := range []*cobra.Command{priceCmd, tokenCmd, statusCmd, initCmd} {
		c.Flags().StringVar(&serverUrl, "server", "http://127.0.0.1:8080", "xnames server url")
		rootCmd.AddCommand(c)
	}
}
