// Package config loads the bridge parameter file.
package config

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/btcsuite/btcd/wire"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

type genesisFile struct {
	Header string `toml:"header"`
	Height uint32 `toml:"height"`
}

type trusteeFile struct {
	MinCount         uint32        `toml:"min_count"`
	MaxCount         uint32        `toml:"max_count"`
	TransitionWindow time.Duration `toml:"transition_window"`
	ProposalMaxAge   time.Duration `toml:"proposal_max_age"`
}

type consensusFile struct {
	BlockMaxFuture time.Duration `toml:"block_max_future"`
	CheckRetarget  bool          `toml:"check_retarget"`
}

// paramsFile mirrors model.Params in TOML. Keys left out of the file keep
// the network defaults.
type paramsFile struct {
	Network       string             `toml:"network"`
	AccountPrefix uint8              `toml:"account_prefix"`
	Genesis       genesisFile        `toml:"genesis"`
	Consensus     consensusFile      `toml:"consensus"`
	Bridge        model.BridgeParams `toml:"bridge"`
	Trustee       trusteeFile        `toml:"trustee"`
}

// LoadParams returns the defaults of network overlaid with the file at
// path. An empty path yields the defaults.
func LoadParams(path string, network model.Network) (model.Params, error) {
	params, err := model.DefaultParams(network)
	if err != nil {
		return model.Params{}, err
	}
	if path == "" {
		return params, params.Validate()
	}

	file := paramsFile{
		Network:       string(params.Network),
		AccountPrefix: params.AccountPrefix,
		Genesis:       genesisFile{Height: params.Genesis.Height},
		Consensus: consensusFile{
			BlockMaxFuture: params.Consensus.BlockMaxFuture,
			CheckRetarget:  params.Consensus.CheckRetarget,
		},
		Bridge: params.Bridge,
		Trustee: trusteeFile{
			MinCount:         params.Trustee.MinCount,
			MaxCount:         params.Trustee.MaxCount,
			TransitionWindow: params.Trustee.TransitionWindow,
			ProposalMaxAge:   params.Trustee.ProposalMaxAge,
		},
	}
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return model.Params{}, fmt.Errorf("decode params file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return model.Params{}, fmt.Errorf("unknown params keys: %s", strings.Join(keys, ", "))
	}
	if got := model.Network(file.Network).Normalize(); got != params.Network {
		return model.Params{}, fmt.Errorf("params file is for %s, daemon runs %s", got, params.Network)
	}

	params.AccountPrefix = file.AccountPrefix
	params.Consensus.BlockMaxFuture = file.Consensus.BlockMaxFuture
	params.Consensus.CheckRetarget = file.Consensus.CheckRetarget
	params.Bridge = file.Bridge
	params.Trustee = model.TrusteeConfig{
		MinCount:         file.Trustee.MinCount,
		MaxCount:         file.Trustee.MaxCount,
		TransitionWindow: file.Trustee.TransitionWindow,
		ProposalMaxAge:   file.Trustee.ProposalMaxAge,
	}
	if file.Genesis.Header != "" {
		header, err := decodeHeader(file.Genesis.Header)
		if err != nil {
			return model.Params{}, err
		}
		params.Genesis = model.Genesis{Header: *header, Height: file.Genesis.Height}
	} else if file.Genesis.Height != params.Genesis.Height {
		return model.Params{}, fmt.Errorf("genesis height %d set without a genesis header", file.Genesis.Height)
	}

	if err := params.Validate(); err != nil {
		return model.Params{}, fmt.Errorf("validate params: %w", err)
	}
	return params, nil
}

func decodeHeader(s string) (*wire.BlockHeader, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode genesis header: %w", err)
	}
	if len(raw) != wire.MaxBlockHeaderPayload {
		return nil, fmt.Errorf("genesis header is %d bytes, want %d", len(raw), wire.MaxBlockHeaderPayload)
	}
	var header wire.BlockHeader
	if err := header.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("decode genesis header: %w", err)
	}
	return &header, nil
}
