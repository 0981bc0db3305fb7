// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - View and edit the meetcost configuration file.

package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/meetcost/internal/config"
)

func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change configuration",
	}

	cmd.AddCommand(newConfigShowCmd(deps))
	cmd.AddCommand(newConfigGetCmd(deps))
	cmd.AddCommand(newConfigSetCmd(deps))
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigKeysCmd())
	return cmd
}

// =============================================================================
// SHOW / GET
// =============================================================================

func newConfigShowCmd(deps *Dependencies) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := deps.settings()
			out := cmd.OutOrStdout()

			if jsonOut {
				fmt.Fprintln(out, cfg.String())
				return nil
			}
			printConfig(out, cfg)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON (secrets redacted)")
	return cmd
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, TitleStyle.Render("meetcost configuration"))
	fmt.Fprintln(w, RenderSeparator(41))

	section := ""
	for _, key := range config.GetAllKeys() {
		v, err := cfg.Get(key)
		if err != nil {
			continue
		}
		name, field, nested := strings.Cut(key, ".")
		if !nested {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "%s%s\n", LabelStyle.Render(key+":"), ValueStyle.Render(displayValue(key, v)))
			continue
		}
		if name != section {
			section = name
			fmt.Fprintln(w)
			fmt.Fprintln(w, SectionStyle.Render("["+section+"]"))
		}
		fmt.Fprintf(w, "  %s%s\n", LabelStyle.Render(field+":"), ValueStyle.Render(displayValue(key, v)))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, RenderSeparator(41))
	if path, err := config.ConfigPathTOML(); err == nil {
		fmt.Fprintf(w, "Config file: %s\n", path)
	}
}

func newConfigGetCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting, e.g. tracker.tick_ms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := deps.settings().Get(args[0])
			if err != nil {
				return NewValidationError("key", args[0], err.Error(), "meetcost config keys")
			}
			fmt.Fprintln(cmd.OutOrStdout(), displayValue(args[0], v))
			return nil
		},
	}
}

// =============================================================================
// SET
// =============================================================================

func newConfigSetCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting and save the config file",
		Example: "  meetcost config set rates.mode flat\n" +
			"  meetcost config set rates.headcount.SR 3\n" +
			"  meetcost config set tracker.sound true",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			cfg := deps.settings().Clone()
			if err := cfg.Set(key, value); err != nil {
				return NewValidationError("key", key, err.Error(), "meetcost config keys")
			}
			cfg.SetDefaults()
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(cfg); err != nil {
				return err
			}
			deps.Config = cfg

			fmt.Fprintln(cmd.OutOrStdout(), RenderOK(fmt.Sprintf("%s = %s", key, displayValue(key, mustGet(cfg, key)))))
			return nil
		},
	}
}

func mustGet(cfg *config.Config, key string) interface{} {
	v, _ := cfg.Get(key)
	return v
}

// =============================================================================
// PATH / INIT / KEYS
// =============================================================================

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ConfigPathTOML()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Fprintln(cmd.ErrOrStderr(), DimStyle.Render("(file does not exist yet; run `meetcost config init`)"))
			}
			return nil
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ConfigPathTOML()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return NewCommandError("config", "init", path+" already exists (use --force to overwrite)", nil)
			}
			if err := config.EnsureConfigDir(); err != nil {
				return err
			}
			if err := config.SaveTOML(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), RenderOK("Wrote "+path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List every settable key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, k := range config.GetAllKeys() {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// displayValue formats a setting for humans, masking the Slack webhook.
func displayValue(key string, v interface{}) string {
	if strings.HasSuffix(key, "slack_webhook") {
		if s, _ := v.(string); s != "" {
			return "[REDACTED]"
		}
		return "(not set)"
	}

	switch val := v.(type) {
	case map[string]int:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%d", k, val[k])
		}
		return strings.Join(parts, ",")
	case string:
		if val == "" {
			return "(default)"
		}
		return val
	default:
		return fmt.Sprint(val)
	}
}
