package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/servicem8/sm8-cli/internal/api"
	"github.com/servicem8/sm8-cli/internal/config"
	"github.com/servicem8/sm8-cli/internal/iocontext"
	"github.com/servicem8/sm8-cli/internal/validation"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with ServiceM8",
	}
	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthProfilesCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		apiKey    string
		baseURL   string
		profile   string
		noVerify  bool
		setActive bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API key in the system keyring",
		Example: strings.TrimSpace(`
  # Interactive login (prompts for the key)
  sm8 auth login

  # Non-interactive
  sm8 auth login --with-key $SM8_API_KEY

  # Store under a named profile
  sm8 auth login --with-key $KEY --save-profile work
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			key := strings.TrimSpace(apiKey)
			if key == "" {
				if flags.NoInput {
					return fmt.Errorf("--with-key is required in non-interactive mode")
				}
				var err error
				key, err = promptForKey(cmd)
				if err != nil {
					return err
				}
			}
			if key == "" {
				return fmt.Errorf("API key cannot be empty")
			}

			url := strings.TrimSpace(baseURL)
			if url != "" {
				if err := validation.ValidateAPIURL(url); err != nil {
					return err
				}
			}

			if !noVerify {
				client := api.New(url, key)
				client.UserAgent = "sm8-cli/" + version
				if err := client.Ping(cmd.Context()); err != nil {
					return fmt.Errorf("credential check failed: %w", err)
				}
			}

			account := config.Account{APIKey: key, BaseURL: url}
			if profile != "" {
				if err := config.SaveProfile(profile, account); err != nil {
					return err
				}
				if setActive {
					if err := config.SetCurrentProfile(profile); err != nil {
						return err
					}
				}
				printIfNotQuiet(cmd, "Saved profile %q\n", profile)
			} else {
				if err := config.SaveAccount(account); err != nil {
					return err
				}
				printIfNotQuiet(cmd, "Logged in\n")
			}

			if isJSON(cmd) {
				result := map[string]any{"logged_in": true}
				if profile != "" {
					result["profile"] = profile
				}
				return printJSON(cmd, result)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&apiKey, "with-key", "", "API key (omit to be prompted)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "API base URL override")
	cmd.Flags().StringVar(&profile, "save-profile", "", "Store the key under a named profile")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip the credential check call")
	cmd.Flags().BoolVar(&setActive, "use", false, "Make the saved profile the active one")
	flagAlias(cmd.Flags(), "with-key", "key")
	return cmd
}

func promptForKey(cmd *cobra.Command) (string, error) {
	ioStreams := iocontext.GetIO(cmd.Context())
	_, _ = fmt.Fprint(ioStreams.Out, "ServiceM8 API key: ")

	if f, ok := ioStreams.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		data, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(ioStreams.Out)
		if err != nil {
			return "", fmt.Errorf("failed to read API key: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	reader := bufio.NewReader(ioStreams.In)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func newAuthStatusCmd() *cobra.Command {
	var skipPing bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			ioStreams := iocontext.GetIO(cmd.Context())

			cfg, err := config.ResolveClientConfig(flags.BaseURL, flags.APIKey)
			if err != nil {
				if isJSON(cmd) {
					return printJSON(cmd, map[string]any{"configured": false})
				}
				_, _ = fmt.Fprintln(ioStreams.Out, "Not logged in. Run: sm8 auth login")
				return nil
			}

			source := credentialSource()
			status := map[string]any{
				"configured": true,
				"base_url":   cfg.BaseURL,
				"source":     source,
				"api_key":    maskKey(cfg.APIKey),
			}
			if current, err := config.CurrentProfile(); err == nil && current != "" {
				status["profile"] = current
			}

			reachable := "skipped"
			if !skipPing {
				client := api.New(cfg.BaseURL, cfg.APIKey)
				client.UserAgent = "sm8-cli/" + version
				if err := client.Ping(cmd.Context()); err != nil {
					reachable = "failed: " + err.Error()
					status["valid"] = false
				} else {
					reachable = "ok"
					status["valid"] = true
				}
			}

			if isJSON(cmd) {
				return printJSON(cmd, status)
			}

			w := newTabWriter(ioStreams.Out)
			_, _ = fmt.Fprintf(w, "Base URL:\t%s\n", cfg.BaseURL)
			_, _ = fmt.Fprintf(w, "API key:\t%s\n", maskKey(cfg.APIKey))
			_, _ = fmt.Fprintf(w, "Source:\t%s\n", source)
			if p, ok := status["profile"].(string); ok {
				_, _ = fmt.Fprintf(w, "Profile:\t%s\n", p)
			}
			_, _ = fmt.Fprintf(w, "Credential check:\t%s\n", reachable)
			return w.Flush()
		}),
	}

	cmd.Flags().BoolVar(&skipPing, "no-verify", false, "Skip the credential check call")
	return cmd
}

func credentialSource() string {
	switch {
	case flags.APIKey != "":
		return "flag"
	case os.Getenv("SM8_API_KEY") != "":
		return "env"
	case os.Getenv("SM8_PROFILE") != "":
		return "profile (env)"
	default:
		if current, err := config.CurrentProfile(); err == nil && current != "" {
			return "profile"
		}
		return "keyring"
	}
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func newAuthLogoutCmd() *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if profile != "" {
				if err := config.DeleteProfile(profile); err != nil {
					return err
				}
				printIfNotQuiet(cmd, "Removed profile %q\n", profile)
			} else {
				if err := config.DeleteAccount(); err != nil {
					return err
				}
				printIfNotQuiet(cmd, "Logged out\n")
			}
			if isJSON(cmd) {
				result := map[string]any{"logged_out": true}
				if profile != "" {
					result["profile"] = profile
				}
				return printJSON(cmd, result)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&profile, "profile", "", "Remove a named profile instead of the default account")
	return cmd
}

func newAuthProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage credential profiles",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored profiles",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profiles, err := config.ListProfiles()
			if err != nil {
				return err
			}
			current, _ := config.CurrentProfile()

			if isJSON(cmd) {
				type profileInfo struct {
					Name    string `json:"name"`
					Current bool   `json:"current"`
				}
				out := make([]profileInfo, 0, len(profiles))
				for _, p := range profiles {
					out = append(out, profileInfo{Name: p, Current: p == current})
				}
				return printJSON(cmd, out)
			}

			ioStreams := iocontext.GetIO(cmd.Context())
			if len(profiles) == 0 {
				_, _ = fmt.Fprintln(ioStreams.Out, "No profiles stored. Run: sm8 auth login --save-profile <name>")
				return nil
			}
			for _, p := range profiles {
				marker := "  "
				if p == current {
					marker = "* "
				}
				_, _ = fmt.Fprintf(ioStreams.Out, "%s%s\n", marker, p)
			}
			return nil
		}),
	}

	use := &cobra.Command{
		Use:   "use <name>",
		Short: "Switch the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if _, err := config.LoadProfile(name); err != nil {
				return err
			}
			if err := config.SetCurrentProfile(name); err != nil {
				return err
			}
			printIfNotQuiet(cmd, "Switched to profile %q\n", name)
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"profile": name, "current": true})
			}
			return nil
		}),
	}

	cmd.AddCommand(list)
	cmd.AddCommand(use)
	return cmd
}
