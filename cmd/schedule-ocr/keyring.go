package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ironsheep/schedule-ocr-mcp/internal/config"
)

var errEmptySecret = errors.New("empty key")

func newKeyringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyring",
		Short: "Manage API keys stored in the OS keyring",
	}
	cmd.AddCommand(&cobra.Command{
		Use:       "set <" + config.SecretOCRSpace + "|" + config.SecretGemini + ">",
		Short:     "Store an API key read from the terminal or stdin",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{config.SecretOCRSpace, config.SecretGemini},
		RunE:      runKeyringSet,
	})
	return cmd
}

func runKeyringSet(cmd *cobra.Command, args []string) error {
	name := args[0]
	value, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), name)
	if err != nil {
		return err
	}
	if err := config.SetSecret(name, value); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "stored %s key in the keyring\n", name)
	return nil
}

// readSecret reads a key without echo from a terminal, or the first line of
// any other input.
func readSecret(in io.Reader, prompt io.Writer, name string) (string, error) {
	var value string
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(prompt, "%s API key: ", name)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("failed to read key: %w", err)
		}
		value = string(b)
	} else {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read key: %w", err)
		}
		value = line
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", errEmptySecret
	}
	return value, nil
}
