package utils

import (
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	TestAccountAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

	geneABI = `[{
		"type": "constructor",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "_name", "type": "string"},
			{"name": "_generation", "type": "uint256"},
			{"name": "_owner", "type": "address"},
			{"name": "_mutable", "type": "bool"},
			{"name": "_seed", "type": "bytes32"},
			{"name": "_rate", "type": "uint8"},
			{"name": "_guardians", "type": "address[]"}
		]
	}]`

	emptyConstructorABI = `[{"type": "function", "name": "getValue", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"}]`
)

func parseABI(t *testing.T, raw string) abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(raw))
	require.NoError(t, err)
	return parsed
}

func geneArgs() []any {
	return []any{
		"Cryptogene",
		"1000000000000000000000000",
		TestAccountAddress,
		"true",
		"0x" + strings.Repeat("ab", 32),
		float64(5),
		[]any{TestAccountAddress, "0x0000000000000000000000000000000000000001"},
	}
}

func TestEncodeContractConstructorArgs(t *testing.T) {
	contractABI := parseABI(t, geneABI)

	encodedArgs, err := EncodeContractConstructorArgs(contractABI, geneArgs())
	require.NoError(t, err)
	assert.NotEmpty(t, encodedArgs)

	values, err := contractABI.Constructor.Inputs.Unpack(encodedArgs)
	require.NoError(t, err)
	require.Len(t, values, 7)

	assert.Equal(t, "Cryptogene", values[0])
	expectedSupply, _ := new(big.Int).SetString("1000000000000000000000000", 10)
	assert.Equal(t, 0, expectedSupply.Cmp(values[1].(*big.Int)))
	assert.Equal(t, common.HexToAddress(TestAccountAddress), values[2])
	assert.Equal(t, true, values[3])
	assert.Equal(t, uint8(5), values[5])
	assert.Len(t, values[6], 2)
}

func TestEncodeContractConstructorArgs_EmptyConstructor(t *testing.T) {
	contractABI := parseABI(t, emptyConstructorABI)

	encodedArgs, err := EncodeContractConstructorArgs(contractABI, []any{})
	require.NoError(t, err)
	assert.Empty(t, encodedArgs, "Empty constructor should produce empty encoded args")

	bytecode := []byte{0x60, 0x80, 0x60, 0x40}
	assert.Equal(t, bytecode, BuildDeploymentData(bytecode, encodedArgs))
}

func TestEncodeContractConstructorArgs_Errors(t *testing.T) {
	contractABI := parseABI(t, geneABI)

	t.Run("MissingArguments", func(t *testing.T) {
		_, err := EncodeContractConstructorArgs(contractABI, nil)
		assert.ErrorContains(t, err, "requires 7 arguments")
	})

	t.Run("WrongCount", func(t *testing.T) {
		_, err := EncodeContractConstructorArgs(contractABI, []any{"only one"})
		assert.ErrorContains(t, err, "expected 7 arguments, got 1")
	})

	t.Run("InvalidAddress", func(t *testing.T) {
		args := geneArgs()
		args[2] = "0x123"
		_, err := EncodeContractConstructorArgs(contractABI, args)
		assert.ErrorContains(t, err, "invalid address")
	})

	t.Run("FractionalInteger", func(t *testing.T) {
		args := geneArgs()
		args[1] = 1.5
		_, err := EncodeContractConstructorArgs(contractABI, args)
		assert.ErrorContains(t, err, "invalid integer")
	})

	t.Run("Uint8Overflow", func(t *testing.T) {
		args := geneArgs()
		args[5] = float64(300)
		_, err := EncodeContractConstructorArgs(contractABI, args)
		assert.ErrorContains(t, err, "overflows")
	})

	t.Run("WrongFixedBytesLength", func(t *testing.T) {
		args := geneArgs()
		args[4] = "0xabcd"
		_, err := EncodeContractConstructorArgs(contractABI, args)
		assert.ErrorContains(t, err, "expected 32 bytes")
	})
}

func TestEncodeContractConstructorArgs_JSONNumbers(t *testing.T) {
	contractABI := parseABI(t, `[{"type": "constructor", "inputs": [
		{"name": "_supply", "type": "uint256"},
		{"name": "_limit", "type": "uint64"}
	]}]`)

	encode := func(t *testing.T, supply, limit json.Number) []any {
		t.Helper()
		encodedArgs, err := EncodeContractConstructorArgs(contractABI, []any{supply, limit})
		require.NoError(t, err)
		values, err := contractABI.Constructor.Inputs.Unpack(encodedArgs)
		require.NoError(t, err)
		return values
	}

	t.Run("AboveFloatPrecision", func(t *testing.T) {
		values := encode(t, "9007199254740993", "9007199254740993")
		assert.Equal(t, "9007199254740993", values[0].(*big.Int).String())
		assert.Equal(t, uint64(9007199254740993), values[1])
	})

	t.Run("TokenSupplyLiteral", func(t *testing.T) {
		values := encode(t, "1000000000000000000000000", "1")
		assert.Equal(t, "1000000000000000000000000", values[0].(*big.Int).String())
	})

	t.Run("ExponentForm", func(t *testing.T) {
		values := encode(t, "1e24", "1")
		assert.Equal(t, "1000000000000000000000000", values[0].(*big.Int).String())
	})

	t.Run("Fractional", func(t *testing.T) {
		_, err := EncodeContractConstructorArgs(contractABI, []any{json.Number("1.5"), json.Number("1")})
		assert.ErrorContains(t, err, "invalid integer")
	})

	t.Run("InexactFloat", func(t *testing.T) {
		_, err := EncodeContractConstructorArgs(contractABI, []any{float64(9007199254740993), json.Number("1")})
		assert.ErrorContains(t, err, "invalid integer")
	})
}

func TestEncodeContractConstructorArgs_TypedArrays(t *testing.T) {
	contractABI := parseABI(t, `[{"type": "constructor", "inputs": [
		{"name": "_tag", "type": "bytes4"},
		{"name": "_weights", "type": "uint8[]"},
		{"name": "_offsets", "type": "int64[2]"},
		{"name": "_seeds", "type": "bytes32[]"},
		{"name": "_labels", "type": "string[]"}
	]}]`)

	args := []any{
		"0xdeadbeef",
		[]any{json.Number("1"), "2", float64(3)},
		[]any{json.Number("-5"), "7"},
		[]any{"0x" + strings.Repeat("ab", 32)},
		[]any{"alpha", "beta"},
	}
	encodedArgs, err := EncodeContractConstructorArgs(contractABI, args)
	require.NoError(t, err)

	values, err := contractABI.Constructor.Inputs.Unpack(encodedArgs)
	require.NoError(t, err)
	assert.Equal(t, [4]byte{0xde, 0xad, 0xbe, 0xef}, values[0])
	assert.Equal(t, []uint8{1, 2, 3}, values[1])
	assert.Equal(t, [2]int64{-5, 7}, values[2])
	require.Len(t, values[3], 1)
	assert.Equal(t, []string{"alpha", "beta"}, values[4])

	t.Run("ElementOverflow", func(t *testing.T) {
		bad := append([]any{}, args...)
		bad[1] = []any{"256"}
		_, err := EncodeContractConstructorArgs(contractABI, bad)
		assert.ErrorContains(t, err, "failed to process array element 0")
	})

	t.Run("WrongFixedArrayLength", func(t *testing.T) {
		bad := append([]any{}, args...)
		bad[2] = []any{"1"}
		_, err := EncodeContractConstructorArgs(contractABI, bad)
		assert.ErrorContains(t, err, "expected 2 array elements")
	})
}

func TestBuildDeploymentData(t *testing.T) {
	bytecode := []byte{0x60, 0x80}
	args := []byte{0x00, 0x01}

	data := BuildDeploymentData(bytecode, args)
	assert.Equal(t, []byte{0x60, 0x80, 0x00, 0x01}, data)
	assert.Equal(t, []byte{0x60, 0x80}, bytecode, "input bytecode must not be modified")
}

func TestDecodeBytecode(t *testing.T) {
	t.Run("WithPrefix", func(t *testing.T) {
		raw, err := DecodeBytecode("0x6080")
		require.NoError(t, err)
		assert.Equal(t, []byte{0x60, 0x80}, raw)
	})

	t.Run("WithoutPrefix", func(t *testing.T) {
		raw, err := DecodeBytecode("6080")
		require.NoError(t, err)
		assert.Equal(t, []byte{0x60, 0x80}, raw)
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, input := range []string{"", "0x", "0xzz", "0x60__$lib$__80"} {
			_, err := DecodeBytecode(input)
			assert.Error(t, err, "expected error for %q", input)
		}
	})
}
