package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/flavortown/pkg/config"
)

func (a *app) setupCmd() *cobra.Command {
	var (
		key   string
		paste bool
	)
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Configure your API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.writablePath()
			if err != nil {
				return err
			}

			switch {
			case paste:
				key, err = clipboard.ReadAll()
				if err != nil {
					return fmt.Errorf("reading clipboard: %w", err)
				}
			case key == "":
				a.printSetupHelp()
				key, err = a.promptKey()
				if err != nil {
					return err
				}
			}

			if strings.TrimSpace(key) == "" {
				fmt.Fprintln(a.out, a.styles.Danger.Render("No key entered. Setup cancelled."))
				return nil
			}
			if err := config.SetAPIKey(path, key); err != nil {
				return fmt.Errorf("saving API key: %w", err)
			}
			a.success("API key saved successfully!")
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "API key to save without prompting")
	cmd.Flags().BoolVar(&paste, "paste", false, "read the API key from the clipboard")
	cmd.MarkFlagsMutuallyExclusive("key", "paste")
	return cmd
}

func (a *app) printSetupHelp() {
	s := a.styles
	fmt.Fprintln(a.out, s.Link.Render("How to get your API key:"))
	fmt.Fprintf(a.out, "1. Go to %s in Flavortown.\n", s.Name.Render("Settings"))
	fmt.Fprintln(a.out, `2. Click on "Generate API Key".`)
	fmt.Fprintln(a.out, "3. Copy the key and paste it below.")
	fmt.Fprintln(a.out)
}

// promptKey asks for the key with a masked huh input on a terminal and reads
// a plain line otherwise. An aborted prompt yields an empty key.
func (a *app) promptKey() (string, error) {
	if a.interactive {
		var key string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Enter your API key").
					EchoMode(huh.EchoModePassword).
					Value(&key),
			),
		).WithTheme(huh.ThemeDracula())
		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return "", nil
			}
			return "", fmt.Errorf("prompting for API key: %w", err)
		}
		return key, nil
	}

	fmt.Fprint(a.out, a.styles.Name.Render("Enter your API key: "))
	line, err := bufio.NewReader(a.in).ReadString('\n')
	fmt.Fprintln(a.out)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading API key: %w", err)
	}
	return line, nil
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := a.cfg.ResolvedAPIKey()
			if key == "" {
				a.warn(`Not logged in. Run "flavortown setup" to get started.`)
				return nil
			}
			fmt.Fprintf(a.out, "%s %s\n", a.styles.Success.Render("Logged in with API Key:"), config.MaskKey(key))
			if os.Getenv(config.EnvAPIKey) != "" {
				a.dim("(from " + config.EnvAPIKey + ")")
			}
			if a.cfg.BaseURL != config.DefaultBaseURL {
				a.dim("API: " + a.cfg.BaseURL)
			}
			return nil
		},
	}
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear your API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.writablePath()
			if err != nil {
				return err
			}
			if err := config.ClearAPIKey(path); err != nil {
				return fmt.Errorf("clearing API key: %w", err)
			}
			a.success("Logged out successfully. API key cleared.")
			if os.Getenv(config.EnvAPIKey) != "" {
				a.warnErr("%s is still set in the environment", config.EnvAPIKey)
			}
			return nil
		},
	}
}
