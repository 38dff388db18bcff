package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/solc-go"
)

const sourceFileName = "contract.sol"

type CompilationResult struct {
	Bytecode map[string]string
	Abi      map[string]any
}

// CompileSolidity compiles a single Solidity source. Imports are resolved
// against importRoots in order: a path relative to a root first, then
// <root>/node_modules for package imports such as "@openzeppelin/...".
func CompileSolidity(version string, code string, importRoots ...string) (CompilationResult, error) {
	compiler, err := solc.NewWithVersion(version)
	if err != nil {
		return CompilationResult{}, err
	}

	opts := solc.CompileOptions{
		ImportCallback: func(u string) solc.ImportResult {
			content, err := resolveImport(u, importRoots)
			if err != nil {
				return solc.ImportResult{Error: err.Error()}
			}
			return solc.ImportResult{Contents: content}
		},
	}
	result, err := compiler.CompileWithOptions(&solc.Input{
		Language: "Solidity",
		Sources: map[string]solc.SourceIn{
			sourceFileName: {
				Content: code,
			},
		},
		Settings: solc.Settings{
			OutputSelection: map[string]map[string][]string{
				"*": {
					"*": []string{"abi", "evm.bytecode"},
				},
			},
		},
	}, &opts)
	if err != nil {
		return CompilationResult{}, err
	}

	if len(result.Errors) > 0 {
		return CompilationResult{}, fmt.Errorf("compilation errors: %v", result.Errors)
	}

	bytecodeMap := make(map[string]string)
	abiMap := make(map[string]any)

	for fileName, contract := range result.Contracts {
		if fileName != sourceFileName {
			continue
		}
		for contractName, contract := range contract {
			bytecodeMap[contractName] = contract.EVM.Bytecode.Object
			abiMap[contractName] = contract.ABI
		}
	}

	return CompilationResult{
		Bytecode: bytecodeMap,
		Abi:      abiMap,
	}, nil
}

func resolveImport(importPath string, roots []string) (string, error) {
	if filepath.IsAbs(importPath) || strings.Contains(importPath, "..") {
		return "", fmt.Errorf("import %s not allowed", importPath)
	}
	for _, root := range roots {
		for _, candidate := range []string{
			filepath.Join(root, importPath),
			filepath.Join(root, "node_modules", importPath),
		} {
			content, err := os.ReadFile(candidate)
			if err == nil {
				return string(content), nil
			}
		}
	}
	return "", fmt.Errorf("import %s not found", importPath)
}
