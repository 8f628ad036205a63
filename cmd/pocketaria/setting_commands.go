package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"pocketaria/internal/library"
	"pocketaria/internal/store"
)

func newSettingCommand(ctx *commandContext) *cobra.Command {
	settingCmd := &cobra.Command{
		Use:     "setting",
		Aliases: []string{"settings"},
		Short:   "Read and write persisted preferences",
	}
	settingCmd.AddCommand(newSettingListCommand(ctx))
	settingCmd.AddCommand(newSettingGetCommand(ctx))
	settingCmd.AddCommand(newSettingSetCommand(ctx))
	settingCmd.AddCommand(newSettingDeleteCommand(ctx))
	return settingCmd
}

func newSettingListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every setting",
		RunE: func(cmd *cobra.Command, args []string) error {
			var settings []*library.Setting
			err := ctx.withStore(cmd.Context(), func(m *store.Manager) error {
				s, err := m.EnsureOpen(cmd.Context())
				if err != nil {
					return err
				}
				settings, err = s.GetAllSettings(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, settings)
			}
			rows := make([][]string, 0, len(settings))
			for _, setting := range settings {
				rows = append(rows, []string{setting.Key, formatSettingValue(setting.Value)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Key", "Value"}, rows, nil))
			return nil
		},
	}
}

func newSettingGetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var setting library.Setting
			var found bool
			err := ctx.withStore(cmd.Context(), func(m *store.Manager) error {
				s, err := m.EnsureOpen(cmd.Context())
				if err != nil {
					return err
				}
				setting, found, err = s.GetSetting(cmd.Context(), args[0])
				return err
			})
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("setting %q is not set", args[0])
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, setting)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatSettingValue(setting.Value))
			return nil
		},
	}
}

func newSettingSetCommand(ctx *commandContext) *cobra.Command {
	var asString bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a setting; true/false and numbers keep their type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := parseSettingValue(args[1], asString)
			err := ctx.withStore(cmd.Context(), func(m *store.Manager) error {
				s, err := m.EnsureOpen(cmd.Context())
				if err != nil {
					return err
				}
				return s.SaveSetting(cmd.Context(), args[0], value)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], formatSettingValue(value))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asString, "string", false, "Store the value as text even if it looks like a number or bool")
	return cmd
}

func newSettingDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(m *store.Manager) error {
				s, err := m.EnsureOpen(cmd.Context())
				if err != nil {
					return err
				}
				return s.DeleteSetting(cmd.Context(), args[0])
			})
		},
	}
}

func parseSettingValue(raw string, asString bool) any {
	if asString {
		return raw
	}
	trimmed := strings.TrimSpace(raw)
	if b, err := strconv.ParseBool(trimmed); err == nil && (trimmed == "true" || trimmed == "false") {
		return b
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return n
	}
	return raw
}

func formatSettingValue(value any) string {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
