// Package console is the line-oriented terminal the client talks through.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrClosed reports that input is exhausted.
var ErrClosed = io.EOF

// Console reads answers line by line and writes prompts and messages.
type Console struct {
	in  *bufio.Reader
	out io.Writer
	// fd is the terminal file descriptor used for masked input, or -1.
	fd int
}

// New returns a console over arbitrary streams. Password entry is not masked.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out, fd: -1}
}

// Std returns a console on the process's standard streams, masking password
// entry when stdin is a terminal.
func Std() *Console {
	c := New(os.Stdin, os.Stdout)
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		c.fd = fd
	}
	return c
}

// Ask prints prompt and returns the entered line without its line ending.
// A final line without a newline is returned; after that ErrClosed.
func (c *Console) Ask(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		fmt.Fprintln(c.out)
		return "", ErrClosed
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// AskTrimmed is Ask with surrounding whitespace removed and letters lower-cased.
func (c *Console) AskTrimmed(prompt string) (string, error) {
	s, err := c.Ask(prompt)
	return strings.ToLower(strings.TrimSpace(s)), err
}

// Password reads a secret without echo when attached to a terminal.
func (c *Console) Password(prompt string) (string, error) {
	if c.fd < 0 {
		return c.Ask(prompt)
	}
	fmt.Fprint(c.out, prompt)
	b, err := term.ReadPassword(c.fd)
	fmt.Fprintln(c.out)
	if err != nil {
		return "", ErrClosed
	}
	return string(b), nil
}

// YesNo asks until the answer is y or n. Exhausted input returns false
// with ErrClosed.
func (c *Console) YesNo(prompt string) (bool, error) {
	for {
		ans, err := c.AskTrimmed(prompt)
		if err != nil {
			return false, err
		}
		switch ans {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		c.Say("Invalid Option.")
	}
}

// Say prints one line.
func (c *Console) Say(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}
