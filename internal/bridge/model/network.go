package model

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

// Network names a Bitcoin network the bridge follows.
type Network string

// Chain names an external chain handled by the bridge.
type Chain string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Regtest Network = "regtest"
	Signet  Network = "signet"
)

const Bitcoin Chain = "Bitcoin"

// ChainParams resolves btcd network parameters for the network.
func ChainParams(network Network) (*chaincfg.Params, error) {
	switch strings.ToLower(string(network)) {
	case "main", "mainnet", "bitcoin":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	default:
		return nil, fmt.Errorf("unsupported network %q", network)
	}
}

// Normalize maps network aliases onto the canonical names.
func (n Network) Normalize() Network {
	switch strings.ToLower(string(n)) {
	case "main", "mainnet", "bitcoin":
		return Mainnet
	case "testnet", "testnet3":
		return Testnet
	case "regtest":
		return Regtest
	case "signet":
		return Signet
	default:
		return n
	}
}
