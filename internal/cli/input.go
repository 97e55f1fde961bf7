package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// readLines delivers trimmed lines from r until EOF or ctx is done. The
// channel is closed at EOF.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- strings.TrimSpace(sc.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// readInput returns the contents of path, or stdin when path is "" or "-".
func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		if stdinIsTerminal() {
			fmt.Fprintln(os.Stderr, "(reading from stdin, end with Ctrl-D)")
		}
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func prompt(s string) {
	if stdinIsTerminal() {
		fmt.Fprint(os.Stderr, s)
	}
}
