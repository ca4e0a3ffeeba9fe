package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ConfirmAction asks a y/N question and reads one line of input. Anything
// other than y or yes, including end of input, is a no.
func ConfirmAction(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
