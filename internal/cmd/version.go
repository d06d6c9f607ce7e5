package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/servicem8/sm8-cli/internal/iocontext"
	"github.com/servicem8/sm8-cli/internal/update"
)

// version is set at build time via -ldflags "-X github.com/servicem8/sm8-cli/internal/cmd.version=..."
var version = "dev"

// Version returns the CLI version string.
func Version() string {
	return version
}

func newVersionCmd() *cobra.Command {
	var checkUpdate bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			info := map[string]any{
				"version": version,
				"go":      runtime.Version(),
				"os":      runtime.GOOS,
				"arch":    runtime.GOARCH,
			}

			var result *update.CheckResult
			if checkUpdate {
				result = update.CheckForUpdate(cmd.Context(), version)
				if result != nil {
					info["latest_version"] = result.LatestVersion
					info["update_available"] = result.UpdateAvailable
					if result.UpdateURL != "" {
						info["update_url"] = result.UpdateURL
					}
					if result.AssetURL != "" {
						info["download_url"] = result.AssetURL
					}
				}
			}

			if isJSON(cmd) {
				return printJSON(cmd, info)
			}

			ioStreams := iocontext.GetIO(cmd.Context())
			fmt.Fprintf(ioStreams.Out, "sm8 version %s (%s %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			if checkUpdate {
				switch {
				case result == nil:
					fmt.Fprintln(ioStreams.Out, "Update check skipped or failed.")
				case result.UpdateAvailable:
					fmt.Fprintf(ioStreams.Out, "A newer version is available: %s\n", result.LatestVersion)
					switch {
					case result.AssetURL != "":
						fmt.Fprintf(ioStreams.Out, "Download: %s\n", result.AssetURL)
					case result.UpdateURL != "":
						fmt.Fprintf(ioStreams.Out, "Download: %s\n", result.UpdateURL)
					}
				default:
					fmt.Fprintln(ioStreams.Out, "You are on the latest version.")
				}
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&checkUpdate, "check-update", false, "Check GitHub for a newer release")
	return cmd
}
