package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gosolc/internal/semver"
	"gosolc/internal/update"
)

var (
	versionsInstalled bool
	versionsRefresh   bool
	versionsFormat    string
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List usable compiler versions",
	Long: `List the compiler versions gosolc can compile with.

By default this queries the release catalog (network, with an on-disk cache);
when the catalog is unreachable it falls back to what is already installed.
With --installed only the local install directory is consulted.

Examples:
  gosolc versions
  gosolc versions --refresh
  gosolc versions --installed`,
	Args: cobra.NoArgs,
	Run:  runVersions,
}

func init() {
	versionsCmd.Flags().BoolVar(&versionsInstalled, "installed", false, "List locally installed versions only")
	versionsCmd.Flags().BoolVar(&versionsRefresh, "refresh", false, "Bypass the release catalog cache")
	versionsCmd.Flags().StringVar(&versionsFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(versionsCmd)
}

// VersionsResponseCLI contains the version listing for CLI output
type VersionsResponseCLI struct {
	Source   string   `json:"source"`
	Versions []string `json:"versions"`
	Latest   string   `json:"latest,omitempty"`
}

func runVersions(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)
	installer := mustNewInstaller(cfg, logger)

	var response *VersionsResponseCLI
	if versionsInstalled {
		versions, err := installer.Versions()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing installed compilers: %v\n", err)
			os.Exit(1)
		}
		response = versionsResponse("installed", versions)
	} else {
		source := newCatalogSource(cfg, installer, logger, versionsRefresh)
		snap, err := source.Refresh(newContext())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error refreshing catalog: %v\n", err)
			os.Exit(1)
		}
		response = versionsResponse("catalog", snap.Versions())
	}

	output, err := FormatResponse(response, OutputFormat(versionsFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)

	// The user is already asking about versions, so a gosolc update notice
	// belongs here. Silent on any failure.
	if info := update.NewChecker().Check(newContext()); info != nil {
		fmt.Fprint(os.Stderr, info.Message())
	}
}

func versionsResponse(sourceName string, versions []semver.Version) *VersionsResponseCLI {
	resp := &VersionsResponseCLI{
		Source:   sourceName,
		Versions: make([]string, 0, len(versions)),
	}
	for _, v := range versions {
		resp.Versions = append(resp.Versions, v.String())
	}
	if len(versions) > 0 {
		resp.Latest = versions[len(versions)-1].String()
	}
	return resp
}
