package prompt

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

const (
	// EnvPassword supplies the keyring password without prompting.
	EnvPassword = "WARP_KEYRING_PASSWORD"
	// EnvNonInteractive disables every prompt when truthy.
	EnvNonInteractive = "WARP_NON_INTERACTIVE"
	envCI             = "CI"

	passwordLabel = "Enter your keyring password (if using/needed)"
)

var ErrAborted = errors.New("prompt aborted")

// promptRunner is swapped in tests.
var promptRunner = func(p promptui.Prompt) (string, error) {
	return p.Run()
}

var stdinIsTTY = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func isTruthyEnv(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// IsInteractive reports whether the user can be prompted.
func IsInteractive() bool {
	if isTruthyEnv(EnvNonInteractive) || isTruthyEnv(envCI) {
		return false
	}
	return stdinIsTTY()
}

// Password asks once for the keyring password. An empty answer means the chain binary
// prompts by itself when it needs to. WARP_KEYRING_PASSWORD wins over prompting.
func Password() (string, error) {
	if password := os.Getenv(EnvPassword); password != "" {
		return password, nil
	}
	if !IsInteractive() {
		return "", nil
	}

	password, err := promptRunner(promptui.Prompt{
		Label: passwordLabel,
		Mask:  '*',
	})
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("failed to read keyring password: %w", err)
	}

	return password, nil
}
