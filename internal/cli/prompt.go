package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// prompter reads answers for interactive setup.
type prompter struct {
	reader *bufio.Reader
	out    io.Writer
	// stdin is consulted for hidden input; nil reads passwords as plain lines
	stdin *os.File
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	p := &prompter{reader: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.stdin = f
	}
	return p
}

// line asks for a value, returning def on empty input.
func (p *prompter) line(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	input, err := p.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return def, nil
	}
	return input, nil
}

// yesNo asks a y/N question.
func (p *prompter) yesNo(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(p.out, "%s [%s]: ", label, hint)
	input, err := p.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return def, nil
}

// integer asks for a whole number; invalid input is asked again.
func (p *prompter) integer(label string, def int, valid func(int) error) (int, error) {
	for {
		input, err := p.line(label, strconv.Itoa(def))
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(input)
		if convErr == nil {
			if valid == nil {
				return n, nil
			}
			if convErr = valid(n); convErr == nil {
				return n, nil
			}
		}
		fmt.Fprintf(p.out, "  Invalid value: %s\n", input)
	}
}

// password reads a secret without echo when stdin is a terminal.
func (p *prompter) password(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	if p.stdin == nil {
		input, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		return strings.TrimSpace(input), nil
	}
	secret, err := term.ReadPassword(int(p.stdin.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(secret), nil
}
