package contracts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

//go:embed artifacts/*.json
var artifactFS embed.FS

// HardhatArtifact is the subset of a Hardhat artifact file the deployer reads.
type HardhatArtifact struct {
	Format       string          `json:"_format"`
	ContractName string          `json:"contractName" validate:"required"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi" validate:"required"`
	Bytecode     string          `json:"bytecode" validate:"required"`
}

// ParseHardhatArtifact decodes a single artifact file.
func ParseHardhatArtifact(data []byte) (*HardhatArtifact, error) {
	var artifact HardhatArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal artifact: %w", err)
	}
	return &artifact, nil
}

// EmbeddedArtifacts returns every artifact bundled with the binary, sorted by contract name.
func EmbeddedArtifacts() ([]*HardhatArtifact, error) {
	return LoadArtifacts(artifactFS, "artifacts")
}

// LoadArtifacts reads every *.json artifact in dir of fsys.
func LoadArtifacts(fsys fs.FS, dir string) ([]*HardhatArtifact, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifacts: %w", err)
	}

	var artifacts []*HardhatArtifact
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read artifact %s: %w", entry.Name(), err)
		}
		artifact, err := ParseHardhatArtifact(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		artifacts = append(artifacts, artifact)
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].ContractName < artifacts[j].ContractName
	})
	return artifacts, nil
}
