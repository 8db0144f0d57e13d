package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatJSON formats the response as JSON
func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// formatHuman formats the response in human-readable format
func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *ResolveResponseCLI:
		return formatResolveHuman(v)
	case *VersionsResponseCLI:
		return formatVersionsHuman(v)
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

// formatResolveHuman formats a ResolveResponseCLI in human-readable format
func formatResolveHuman(resp *ResolveResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Resolution for %s\n", resp.ProjectRoot))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	for _, choice := range resp.Files {
		constraint := choice.Constraint
		if constraint == "" {
			constraint = "(unconstrained)"
		}
		b.WriteString(fmt.Sprintf("  %s\n", choice.File))
		b.WriteString(fmt.Sprintf("    constraint: %s\n", constraint))
		b.WriteString(fmt.Sprintf("    version:    %s\n", choice.Version))
	}

	b.WriteString(fmt.Sprintf("\nProject compiles with solc %s\n", resp.Version))

	return b.String(), nil
}

// formatVersionsHuman formats a VersionsResponseCLI in human-readable format
func formatVersionsHuman(resp *VersionsResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Compiler versions (%s)\n", resp.Source))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if len(resp.Versions) == 0 {
		b.WriteString("  (none)\n")
		return b.String(), nil
	}

	for _, v := range resp.Versions {
		marker := " "
		if v == resp.Latest {
			marker = "*"
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", marker, v))
	}
	b.WriteString(fmt.Sprintf("\n%d versions, latest %s\n", len(resp.Versions), resp.Latest))

	return b.String(), nil
}
