package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// confirm asks a yes/no question on the terminal. Non-interactive runs
// (spawned jobs, CI, pipes) proceed without asking, as does --yes.
func confirm(question string) (bool, error) {
	if assumeYes || !term.IsTerminal(int(os.Stdin.Fd())) {
		return true, nil
	}

	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read input: %w", err)
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
