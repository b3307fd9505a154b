package script

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

// ExtractDestinations returns the addresses an output script pays to.
// Non-standard and null-data scripts yield no destinations.
func ExtractDestinations(pkScript []byte, params *chaincfg.Params) []btcutil.Address {
	class, addrs, _, err := txscript.ExtractPkScriptAddrs(pkScript, params)
	if err != nil || class == txscript.NonStandardTy || class == txscript.NullDataTy {
		return nil
	}
	return addrs
}

// Destination returns the encoded address of a single-destination output.
func Destination(pkScript []byte, params *chaincfg.Params) (string, bool) {
	addrs := ExtractDestinations(pkScript, params)
	if len(addrs) != 1 {
		return "", false
	}
	return addrs[0].EncodeAddress(), true
}

// IsNullData reports whether the output is an OP_RETURN carrier.
func IsNullData(pkScript []byte) bool {
	return txscript.GetScriptClass(pkScript) == txscript.NullDataTy
}

// DecodeAddress parses an address and checks it belongs to the network.
func DecodeAddress(address string, params *chaincfg.Params) (btcutil.Address, error) {
	addr, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidAddress, err)
	}
	if !addr.IsForNet(params) {
		return nil, fmt.Errorf("%w: %s is not a %s address", model.ErrInvalidAddress, address, params.Name)
	}
	return addr, nil
}

// PayToAddress builds the output script paying the address.
func PayToAddress(address string, params *chaincfg.Params) ([]byte, error) {
	addr, err := DecodeAddress(address, params)
	if err != nil {
		return nil, err
	}
	pkScript, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidAddress, err)
	}
	return pkScript, nil
}
