package solc

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Result is the decoded output of one compiler run, regrouped by source
// unit. Contract artifacts keep solc's combined-json field names so the
// serialized form stays recognizable to downstream tools.
type Result struct {
	CompilerVersion string                 `json:"version"`
	Sources         map[string]*SourceUnit `json:"sources"`
}

// SourceUnit groups everything produced for one source file.
type SourceUnit struct {
	AST       json.RawMessage      `json:"ast,omitempty"`
	Contracts map[string]*Contract `json:"contracts,omitempty"`
}

// Contract holds the artifacts for one declared contract.
type Contract struct {
	ABI              json.RawMessage `json:"abi,omitempty"`
	RuntimeBytecode  string          `json:"bin-runtime,omitempty"`
	RuntimeSourceMap string          `json:"srcmap-runtime,omitempty"`
}

// ContractCount reports how many contracts the run produced.
func (r *Result) ContractCount() int {
	n := 0
	for _, src := range r.Sources {
		n += len(src.Contracts)
	}
	return n
}

// SourcePaths lists the source units in the result, sorted.
func (r *Result) SourcePaths() []string {
	paths := make([]string, 0, len(r.Sources))
	for path := range r.Sources {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// combinedOutput mirrors solc's --combined-json document. Field casing
// varies across compiler generations ("AST" vs "ast"); encoding/json's
// case-insensitive tag matching absorbs that.
type combinedOutput struct {
	Contracts map[string]combinedContract `json:"contracts"`
	Sources   map[string]combinedSource   `json:"sources"`
	Version   string                      `json:"version"`
}

type combinedContract struct {
	ABI              json.RawMessage `json:"abi"`
	RuntimeBytecode  string          `json:"bin-runtime"`
	RuntimeSourceMap string          `json:"srcmap-runtime"`
}

type combinedSource struct {
	AST json.RawMessage `json:"AST"`
}

// parseCombined decodes solc's combined JSON document and regroups the flat
// "path:Contract" keys by source unit.
func parseCombined(stdout string) (*Result, error) {
	var combined combinedOutput
	if err := json.Unmarshal([]byte(stdout), &combined); err != nil {
		return nil, fmt.Errorf("decoding combined output: %w", err)
	}

	result := &Result{
		CompilerVersion: combined.Version,
		Sources:         make(map[string]*SourceUnit),
	}

	unit := func(path string) *SourceUnit {
		if u, ok := result.Sources[path]; ok {
			return u
		}
		u := &SourceUnit{Contracts: make(map[string]*Contract)}
		result.Sources[path] = u
		return u
	}

	for path, src := range combined.Sources {
		unit(path).AST = src.AST
	}

	for key, c := range combined.Contracts {
		path, name, err := splitContractKey(key)
		if err != nil {
			return nil, err
		}
		abi, err := normalizeABI(c.ABI)
		if err != nil {
			return nil, fmt.Errorf("contract %s: %w", key, err)
		}
		unit(path).Contracts[name] = &Contract{
			ABI:              abi,
			RuntimeBytecode:  c.RuntimeBytecode,
			RuntimeSourceMap: c.RuntimeSourceMap,
		}
	}

	return result, nil
}

// splitContractKey separates a combined-json "path:Name" key on the LAST
// colon. Paths may contain colons; contract names cannot.
func splitContractKey(key string) (path, name string, err error) {
	idx := strings.LastIndex(key, ":")
	if idx <= 0 || idx == len(key)-1 {
		return "", "", fmt.Errorf("malformed contract key %q", key)
	}
	return key[:idx], key[idx+1:], nil
}

// normalizeABI unwraps the double-encoded ABI older compilers emit: before
// 0.8 the combined output carries the ABI as a JSON string containing the
// array, not the array itself.
func normalizeABI(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 || raw[0] != '"' {
		return raw, nil
	}

	var inner string
	if err := json.Unmarshal(raw, &inner); err != nil {
		return nil, fmt.Errorf("unwrapping string-encoded abi: %w", err)
	}
	return json.RawMessage(inner), nil
}
