package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// stdinName labels sources read from standard input.
const stdinName = "<stdin>"

// sourcePath returns the source file named on the command line: no
// argument or "-" means standard input, reported as "".
func sourcePath(args []string) string {
	if len(args) == 0 || args[0] == "-" {
		return ""
	}
	return args[0]
}

// readSource handles the 2 modes of input:
// 1. Standard input (no argument, or -)
// 2. File input
func readSource(cmd *cobra.Command, path string) (string, string, error) {
	if path == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("error reading stdin: %w", err)
		}
		return string(data), stdinName, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("error reading file %s: %w", path, err)
	}
	return string(data), path, nil
}
