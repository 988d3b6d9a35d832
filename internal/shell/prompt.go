package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Test seams for the terminal. Replace them in tests to avoid touching a TTY.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// Prompter reads answers from the user. Secrets are read without echo when
// the input is a terminal and as plain lines otherwise, so piped input works.
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
	fd     int // -1 unless in is a file
}

// NewPrompter reads lines from in and writes prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	fd := -1
	if f, ok := in.(*os.File); ok {
		fd = int(f.Fd())
	}
	return &Prompter{reader: bufio.NewReader(in), out: out, fd: fd}
}

// ReadLine returns the next input line without its newline. A final line
// without a newline is returned before io.EOF.
func (p *Prompter) ReadLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Text prints label and reads a trimmed line.
func (p *Prompter) Text(label string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "%s: ", label); err != nil {
		return "", err
	}
	line, err := p.ReadLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Secret prints label and reads a value without echo.
func (p *Prompter) Secret(label string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "%s: ", label); err != nil {
		return "", err
	}
	// a terminal read would skip input already buffered
	if p.fd < 0 || p.reader.Buffered() > 0 || !isTerminal(p.fd) {
		return p.ReadLine()
	}
	secret, err := readPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}
