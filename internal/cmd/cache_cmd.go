package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/servicem8/sm8-cli/internal/cache"
	"github.com/servicem8/sm8-cli/internal/iocontext"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the lookup cache",
		Long: "Name resolution for staff, queues, windows and categories caches API\n" +
			"listings on disk for " + cache.DefaultTTL.String() + ". Set SM8_NO_CACHE=1 to bypass it.",
	}
	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCacheStatusCmd())
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached lookups",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			dir := resolveCacheDir()
			if dir == "" {
				return fmt.Errorf("cache directory could not be determined")
			}
			cache.ClearAll(dir)
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"cleared": true, "dir": dir})
			}
			printIfNotQuiet(cmd, "Cleared cache in %s\n", dir)
			return nil
		}),
	}
	return cmd
}

func newCacheStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show cached lookup files",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			dir := resolveCacheDir()
			disabled := os.Getenv("SM8_NO_CACHE") != ""

			type cacheFile struct {
				Name     string `json:"name"`
				Bytes    int64  `json:"bytes"`
				Modified string `json:"modified"`
			}
			var files []cacheFile
			if dir != "" {
				entries, err := os.ReadDir(dir)
				if err == nil {
					for _, e := range entries {
						if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
							continue
						}
						info, err := e.Info()
						if err != nil {
							continue
						}
						files = append(files, cacheFile{
							Name:     e.Name(),
							Bytes:    info.Size(),
							Modified: info.ModTime().Format("2006-01-02 15:04:05"),
						})
					}
				}
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"dir":      dir,
					"disabled": disabled,
					"ttl":      cache.DefaultTTL.String(),
					"files":    files,
				})
			}

			ioStreams := iocontext.GetIO(cmd.Context())
			w := newTabWriter(ioStreams.Out)
			_, _ = fmt.Fprintf(w, "Directory:\t%s\n", dir)
			_, _ = fmt.Fprintf(w, "TTL:\t%s\n", cache.DefaultTTL)
			if disabled {
				_, _ = fmt.Fprintf(w, "Disabled:\tyes (SM8_NO_CACHE)\n")
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if len(files) == 0 {
				_, _ = fmt.Fprintln(ioStreams.Out, "\nNo cached files.")
				return nil
			}
			_, _ = fmt.Fprintln(ioStreams.Out)
			fw := newTabWriter(ioStreams.Out)
			_, _ = fmt.Fprintln(fw, "FILE\tSIZE\tMODIFIED")
			for _, f := range files {
				_, _ = fmt.Fprintf(fw, "%s\t%d\t%s\n", filepath.Base(f.Name), f.Bytes, f.Modified)
			}
			return fw.Flush()
		}),
	}
	return cmd
}
