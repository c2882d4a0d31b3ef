package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/chat"
	"github.com/fwojciec/chat/console"
	chatjson "github.com/fwojciec/chat/json"
	"github.com/fwojciec/chat/textlog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newLogsCmd(v *viper.Viper, s streams) *cobra.Command {
	return &cobra.Command{
		Use:   "logs",
		Short: "List saved conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := v.GetString(keyLogDir)
			entries, err := textlog.List(dir)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(s.out, "No saved conversations in %s.\n", dir)
				return nil
			}
			tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
			for _, e := range entries {
				h, turns, err := textlog.Load(e.Path)
				if err != nil {
					fmt.Fprintf(tw, "%s\t-\tunreadable\n", filepath.Base(e.Path))
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%d turns\n", filepath.Base(e.Path), h.Model, len(turns))
			}
			return tw.Flush()
		},
	}
}

func newShowCmd(v *viper.Viper, s streams) *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE",
		Short: "Print a saved conversation",
		Long: `Print a saved conversation. FILE is a text log or JSON export; a bare
file name is also looked up in the log directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := locateLog(args[0], v.GetString(keyLogDir))
			if err != nil {
				return err
			}
			turns, err := loadTurns(path)
			if err != nil {
				return err
			}
			theme := chat.DefaultTheme()
			if !v.GetBool(keyColor) {
				theme = chat.PlainTheme()
			}
			printTurns(s, theme, turns)
			return nil
		},
	}
}

// locateLog resolves name as given, then relative to dir.
func locateLog(name, dir string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	candidate := filepath.Join(dir, name)
	if _, err := os.Stat(candidate); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("log %q not found", name)
		}
		return "", err
	}
	return candidate, nil
}

func loadTurns(path string) ([]chat.Turn, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		e, err := chatjson.Load(path)
		if err != nil {
			return nil, err
		}
		return e.Turns, nil
	}
	_, turns, err := textlog.Load(path)
	return turns, err
}

func printTurns(s streams, theme chat.Theme, turns []chat.Turn) {
	styles := console.NewStyles(lipgloss.NewRenderer(s.out), theme)
	for _, t := range turns {
		switch t.Role {
		case chat.RoleUser:
			fmt.Fprintln(s.out, styles.User.Render(console.UserMarker))
		case chat.RoleAssistant:
			fmt.Fprintln(s.out, styles.Assistant.Render(console.AssistantMarker))
		default:
			fmt.Fprintln(s.out, styles.Muted.Render("[System]"))
		}
		fmt.Fprintf(s.out, "%s\n\n", t.Content)
	}
}
