package utils

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// EncodeContractConstructorArgs coerces args to the constructor's input types
// and ABI-encodes them.
func EncodeContractConstructorArgs(contractABI abi.ABI, args []any) ([]byte, error) {
	constructor := contractABI.Constructor

	if len(constructor.Inputs) > 0 && len(args) == 0 {
		return nil, fmt.Errorf("contract constructor requires %d arguments but none provided", len(constructor.Inputs))
	}

	if len(args) == 0 {
		return []byte{}, nil
	}

	processedArgs, err := processConstructorArgs(constructor.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("failed to process constructor arguments: %w", err)
	}

	encodedArgs, err := constructor.Inputs.Pack(processedArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments: %w", err)
	}

	return encodedArgs, nil
}

func processConstructorArgs(inputs abi.Arguments, args []any) ([]any, error) {
	if len(args) != len(inputs) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(inputs), len(args))
	}

	processedArgs := make([]any, len(args))
	for i, input := range inputs {
		processedArg, err := processArg(input.Type, args[i])
		if err != nil {
			return nil, fmt.Errorf("failed to process argument %d (%s): %w", i, input.Name, err)
		}
		processedArgs[i] = processedArg
	}
	return processedArgs, nil
}

func processArg(argType abi.Type, value any) (any, error) {
	switch argType.T {
	case abi.AddressTy:
		switch v := value.(type) {
		case string:
			if !common.IsHexAddress(v) {
				return nil, fmt.Errorf("invalid address: %s", v)
			}
			return common.HexToAddress(v), nil
		case common.Address:
			return v, nil
		default:
			return nil, fmt.Errorf("unsupported address type: %T", value)
		}

	case abi.UintTy, abi.IntTy:
		bigInt, err := toBigInt(value)
		if err != nil {
			return nil, err
		}
		return fitInteger(argType, bigInt)

	case abi.BoolTy:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			return strings.ToLower(v) == "true", nil
		default:
			return nil, fmt.Errorf("unsupported bool type: %T", value)
		}

	case abi.StringTy:
		switch v := value.(type) {
		case string:
			return v, nil
		default:
			return nil, fmt.Errorf("unsupported string type: %T", value)
		}

	case abi.BytesTy:
		switch v := value.(type) {
		case string:
			return decodeHex(v)
		case []byte:
			return v, nil
		default:
			return nil, fmt.Errorf("unsupported bytes type: %T", value)
		}

	case abi.FixedBytesTy:
		var raw []byte
		switch v := value.(type) {
		case string:
			decoded, err := decodeHex(v)
			if err != nil {
				return nil, err
			}
			raw = decoded
		case []byte:
			raw = v
		default:
			return nil, fmt.Errorf("unsupported bytes type: %T", value)
		}
		if len(raw) != argType.Size {
			return nil, fmt.Errorf("expected %d bytes, got %d", argType.Size, len(raw))
		}
		// bytesN packs from a [N]byte array.
		fixedBytes := reflect.New(argType.GetType()).Elem()
		reflect.Copy(fixedBytes, reflect.ValueOf(raw))
		return fixedBytes.Interface(), nil

	case abi.ArrayTy, abi.SliceTy:
		slice, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("expected array, got %T", value)
		}
		if argType.T == abi.ArrayTy && len(slice) != argType.Size {
			return nil, fmt.Errorf("expected %d array elements, got %d", argType.Size, len(slice))
		}

		// Build the exact Go type the ABI packer expects, e.g. []common.Address,
		// [3]uint8 or []*big.Int, then fill it element by element.
		var values reflect.Value
		if argType.T == abi.ArrayTy {
			values = reflect.New(argType.GetType()).Elem()
		} else {
			values = reflect.MakeSlice(argType.GetType(), len(slice), len(slice))
		}
		for i, elem := range slice {
			processed, err := processArg(*argType.Elem, elem)
			if err != nil {
				return nil, fmt.Errorf("failed to process array element %d: %w", i, err)
			}
			value := reflect.ValueOf(processed)
			if !value.Type().AssignableTo(values.Type().Elem()) {
				return nil, fmt.Errorf("unsupported array element type: %v", argType.Elem)
			}
			values.Index(i).Set(value)
		}
		return values.Interface(), nil

	default:
		return nil, fmt.Errorf("unsupported argument type: %v", argType)
	}
}

// toBigInt accepts decimal strings, 0x-prefixed hex strings, json.Number and Go
// integer types. Numbers must be whole; float64 values must also be exact.
func toBigInt(value any) (*big.Int, error) {
	switch v := value.(type) {
	case json.Number:
		// big.Rat also accepts exponent forms such as 1e24.
		rat, ok := new(big.Rat).SetString(v.String())
		if !ok || !rat.IsInt() {
			return nil, fmt.Errorf("invalid integer: %s", v)
		}
		return new(big.Int).Set(rat.Num()), nil
	case string:
		if hexValue, ok := strings.CutPrefix(v, "0x"); ok {
			bigInt, ok := new(big.Int).SetString(hexValue, 16)
			if !ok {
				return nil, fmt.Errorf("invalid integer: %s", v)
			}
			return bigInt, nil
		}
		bigInt, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer: %s", v)
		}
		return bigInt, nil
	case *big.Int:
		return v, nil
	case int64:
		return big.NewInt(v), nil
	case int:
		return big.NewInt(int64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case float64:
		if v != float64(int64(v)) || v >= 1<<53 || v <= -(1<<53) {
			return nil, fmt.Errorf("invalid integer: %v (not exactly representable, pass it as a string)", v)
		}
		return big.NewInt(int64(v)), nil
	default:
		return nil, fmt.Errorf("unsupported integer type: %T", value)
	}
}

// fitInteger converts to the Go type go-ethereum expects for the ABI integer size.
func fitInteger(argType abi.Type, v *big.Int) (any, error) {
	if argType.T == abi.UintTy && v.Sign() < 0 {
		return nil, fmt.Errorf("negative value %s for %s", v, argType)
	}
	if argType.Size > 64 {
		return v, nil
	}
	if argType.T == abi.UintTy {
		if !v.IsUint64() || v.BitLen() > argType.Size {
			return nil, fmt.Errorf("value %s overflows %s", v, argType)
		}
		n := v.Uint64()
		switch argType.Size {
		case 8:
			return uint8(n), nil
		case 16:
			return uint16(n), nil
		case 32:
			return uint32(n), nil
		case 64:
			return n, nil
		}
	} else {
		if !v.IsInt64() {
			return nil, fmt.Errorf("value %s overflows %s", v, argType)
		}
		n := v.Int64()
		switch argType.Size {
		case 8:
			return int8(n), nil
		case 16:
			return int16(n), nil
		case 32:
			return int32(n), nil
		case 64:
			return n, nil
		}
	}
	return v, nil
}

func decodeHex(v string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(v, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid hex string: %w", err)
	}
	return raw, nil
}

// BuildDeploymentData appends the encoded constructor arguments to the creation bytecode.
func BuildDeploymentData(bytecode []byte, encodedConstructorArgs []byte) []byte {
	data := make([]byte, 0, len(bytecode)+len(encodedConstructorArgs))
	data = append(data, bytecode...)
	return append(data, encodedConstructorArgs...)
}

// DecodeBytecode parses a hex bytecode string as found in compiler output and
// Hardhat artifacts. Unlinked library placeholders are rejected.
func DecodeBytecode(bytecode string) ([]byte, error) {
	bytecode = strings.TrimSpace(strings.TrimPrefix(bytecode, "0x"))
	if bytecode == "" {
		return nil, fmt.Errorf("empty bytecode")
	}
	if strings.Contains(bytecode, "__") {
		return nil, fmt.Errorf("bytecode contains unlinked library references")
	}
	raw, err := hex.DecodeString(bytecode)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode: %w", err)
	}
	return raw, nil
}
