package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type lineResult struct {
	line string
	err  error
}

// Prompter reads answers from a line-oriented input. Reads honour context
// cancellation; a read abandoned that way is picked up by the next call
// instead of starting a second concurrent scan.
type Prompter struct {
	in      *bufio.Scanner
	out     io.Writer
	pending chan lineResult

	ttyFD        int
	tty          bool
	readPassword func(fd int) ([]byte, error)
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{
		in:           bufio.NewScanner(in),
		out:          out,
		readPassword: term.ReadPassword,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.ttyFD = int(f.Fd())
		p.tty = true
	}
	return p
}

// ReadLine prints prompt and returns the next line without its line ending.
// End of input is io.EOF.
func (p *Prompter) ReadLine(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	if p.pending == nil {
		ch := make(chan lineResult, 1)
		p.pending = ch
		go p.scan(ch)
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-p.pending:
		p.pending = nil
		return r.line, r.err
	}
}

// ReadSecret reads a line with echo disabled when the input is a terminal
// and falls back to ReadLine otherwise. Like ReadLine it returns as soon as
// ctx is done.
func (p *Prompter) ReadSecret(ctx context.Context, prompt string) (string, error) {
	if !p.tty {
		return p.ReadLine(ctx, prompt)
	}

	fmt.Fprint(p.out, prompt)

	if p.pending == nil {
		ch := make(chan lineResult, 1)
		p.pending = ch
		go p.scanSecret(ch)
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-p.pending:
		p.pending = nil
		fmt.Fprintln(p.out)
		return r.line, r.err
	}
}

func (p *Prompter) scanSecret(ch chan<- lineResult) {
	b, err := p.readPassword(p.ttyFD)
	if err != nil {
		ch <- lineResult{err: fmt.Errorf("read password: %w", err)}
		return
	}
	ch <- lineResult{line: string(b)}
}

func (p *Prompter) scan(ch chan<- lineResult) {
	if p.in.Scan() {
		ch <- lineResult{line: strings.TrimRight(p.in.Text(), "\r")}
		return
	}
	err := p.in.Err()
	if err == nil {
		err = io.EOF
	}
	ch <- lineResult{err: err}
}
