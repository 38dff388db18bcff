package utils

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

// ConstructorArgsToMap maps constructor input names to stringified argument values,
// for storing alongside a deployment record.
// If an argument equals MAX_UINT256 it is stored as the literal "MAX_UINT256".
// Example usage:
//
//	args = ["Gene", "0x1234567890123456789012345678901234567890"]
//	output = {"_name": "Gene", "_owner": "0x1234567890123456789012345678901234567890"}
func ConstructorArgsToMap(args []any, contractABI abi.ABI) (map[string]string, error) {
	result := make(map[string]string)
	if len(args) == 0 {
		return result, nil
	}

	inputs := contractABI.Constructor.Inputs
	if len(args) != len(inputs) {
		return nil, fmt.Errorf("expected %d constructor arguments, got %d", len(inputs), len(args))
	}

	for i, arg := range args {
		argName := inputs[i].Name
		if argName == "" {
			argName = fmt.Sprintf("arg%d", i)
		}

		argValue, err := formatArgValue(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to format argument %s: %w", argName, err)
		}

		result[argName] = argValue
	}

	return result, nil
}

// formatArgValue formats an argument value to string, with special handling for MAX_UINT256
func formatArgValue(arg any) (string, error) {
	switch v := arg.(type) {
	case json.Number:
		return formatArgValue(v.String())
	case string:
		if v == math.MaxBig256.String() {
			return "MAX_UINT256", nil
		}
		return v, nil
	case *big.Int:
		if v.Cmp(math.MaxBig256) == 0 {
			return "MAX_UINT256", nil
		}
		return v.String(), nil
	case common.Address:
		return v.Hex(), nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", v), nil
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), nil
	case float32, float64:
		return fmt.Sprintf("%.0f", v), nil
	case []byte:
		return "0x" + strings.ToLower(fmt.Sprintf("%x", v)), nil
	case []any:
		parts := make([]string, len(v))
		for i, elem := range v {
			part, err := formatArgValue(elem)
			if err != nil {
				return "", err
			}
			parts[i] = part
		}
		return "[" + strings.Join(parts, ",") + "]", nil
	case nil:
		return "", fmt.Errorf("nil argument")
	default:
		return fmt.Sprintf("%v", v), nil
	}
}
