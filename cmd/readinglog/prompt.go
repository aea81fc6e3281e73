package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"readinglog/internal/auth"
	"readinglog/internal/session"
)

var errAborted = errors.New("aborted")

type prompter struct {
	in  *bufio.Scanner
	out io.Writer

	bold *color.Color
	warn *color.Color
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{
		in:   bufio.NewScanner(in),
		out:  out,
		bold: color.New(color.Bold),
		warn: color.New(color.FgYellow),
	}
}

// ask prints label and returns the trimmed answer, or def when the answer is blank.
func (p *prompter) ask(label, def string) (string, error) {
	if def != "" {
		_, _ = p.bold.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		_, _ = p.bold.Fprintf(p.out, "%s: ", label)
	}
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", errAborted
	}
	answer := strings.TrimSpace(p.in.Text())
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func (p *prompter) confirm(label string) (bool, error) {
	answer, err := p.ask(label+" (y/N)", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// choose asks for a number in [0, n]. Zero is the "none of these" choice.
func (p *prompter) choose(label string, n int) (int, error) {
	for {
		answer, err := p.ask(label, "0")
		if err != nil {
			return 0, err
		}
		i, err := strconv.Atoi(answer)
		if err == nil && i >= 0 && i <= n {
			return i, nil
		}
		_, _ = p.warn.Fprintf(p.out, "enter a number between 0 and %d\n", n)
	}
}

// pick offers values with their labels and returns the chosen value.
func (p *prompter) pick(label string, values []string, def string) (string, error) {
	for i, v := range values {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, v)
	}
	for {
		answer, err := p.ask(label, def)
		if err != nil {
			return "", err
		}
		if i, err := strconv.Atoi(answer); err == nil && i >= 1 && i <= len(values) {
			return values[i-1], nil
		}
		for _, v := range values {
			if strings.EqualFold(v, answer) {
				return v, nil
			}
		}
		_, _ = p.warn.Fprintln(p.out, "unknown choice")
	}
}

// unlock runs the password gate. A wrong password leaves the state locked.
func (p *prompter) unlock(st *session.State, passwordHash string) error {
	password, err := p.ask("Password", "")
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(passwordHash, password) {
		return auth.ErrUnauthorized
	}
	st.Unlock()
	return nil
}
