package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "liftlog-cli",
	Short:   "Parse and log free-text strength workouts",
	Version: Version,
	Long: `liftlog-cli parses workout logs such as "Bankdrücken 4x10 80kg @7" locally,
sends them to a liftlog server, and queries logged sets and training totals.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// inputFlags selects where workout text comes from.
type inputFlags struct {
	file      string
	clipboard bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "read workout text from file ('-' for stdin)")
	cmd.Flags().BoolVar(&f.clipboard, "clipboard", false, "read workout text from the clipboard")
}

// read returns the workout text from args, a file, the clipboard or stdin.
func (f *inputFlags) read(args []string, stdin io.Reader) (string, error) {
	var text string
	switch {
	case len(args) > 0:
		text = strings.Join(args, " ")
	case f.clipboard:
		s, err := clipboard.ReadAll()
		if err != nil {
			return "", fmt.Errorf("read clipboard: %w", err)
		}
		text = s
	case f.file != "" && f.file != "-":
		data, err := os.ReadFile(f.file)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		text = string(data)
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no workout text given")
	}
	return text, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
