package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readSecret reads a value without echo when stdin is a terminal, and a
// plain line otherwise (pipes, tests)
func (a *app) readSecret(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}

	line, err := a.readRawLine()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readLine prompts and reads a trimmed line
func (a *app) readLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)

	line, err := a.readRawLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readRawLine reads up to and including the next newline. A final line
// without newline is accepted.
func (a *app) readRawLine() (string, error) {
	line, err := a.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return line, nil
}

// confirm asks a yes/no question, defaulting to no
func (a *app) confirm(cmd *cobra.Command, prompt string) (bool, error) {
	answer, err := a.readLine(cmd, prompt+" (y/N): ")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}

	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// parseID parses a credential id argument
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid credential id %q", arg)
	}
	return id, nil
}
