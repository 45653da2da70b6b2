// Package prompt implements the interactive console questions of the CLI
// entry point.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompter asks questions on out and reads answers from in, line by line.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// New creates a Prompter reading from in and writing to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// readLine returns the next trimmed input line. ok is false once the input
// is exhausted, which callers treat as "accept the default".
func (p *Prompter) readLine() (line string, ok bool) {
	if !p.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

// UserID asks for a numeric user id, re-prompting until the answer consists
// solely of digits. Returns "" when input ends before a valid id was given.
func (p *Prompter) UserID() string {
	fmt.Fprint(p.out, "Enter your osu! user ID: ")
	for {
		line, ok := p.readLine()
		if !ok {
			return ""
		}
		if isDigits(line) {
			return line
		}
		fmt.Fprint(p.out, "Invalid input. Please enter numeric osu! user ID: ")
	}
}

// Int asks for an integer and falls back to def with a warning on any input
// that does not parse.
func (p *Prompter) Int(question string, def int) int {
	fmt.Fprintf(p.out, "%s: ", question)
	line, ok := p.readLine()
	if !ok {
		return def
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		fmt.Fprintf(p.out, "Invalid input. Defaulting to %d.\n", def)
		return def
	}
	return n
}

// YesNo asks a y/n question with a default, re-prompting on anything other
// than y, n or an empty answer, case-insensitively.
func (p *Prompter) YesNo(question string, def bool) bool {
	defaultChoice := "n"
	if def {
		defaultChoice = "y"
	}
	for {
		fmt.Fprintf(p.out, "%s (y/n) [default: %s]: ", question, defaultChoice)
		line, ok := p.readLine()
		if !ok {
			return def
		}
		choice := strings.ToLower(line)
		if choice == "" {
			choice = defaultChoice
		}
		switch choice {
		case "y":
			return true
		case "n":
			return false
		}
		fmt.Fprintln(p.out, "Please enter 'y' or 'n'.")
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
