// Package shell runs the interactive query loop on a terminal.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

const (
	banner = "Weather Information System (Type 'quit' to exit)"
	prompt = "\nEnter your weather query: "
	quit   = "quit"
)

var exampleQueries = []string{
	"What's the weather like in London?",
	"Tell me the temperature in New York in fahrenheit",
	"How's the weather in Tokyo?",
}

// Answerer turns one query into printable text.
type Answerer interface {
	Answer(ctx context.Context, query string) string
}

// Shell reads queries line by line and prints each answer.
type Shell struct {
	in     io.Reader
	out    io.Writer
	answer Answerer
	logger *zap.Logger

	// OnReady runs once after the banner is printed.
	OnReady func()
}

// New returns a Shell reading from in and writing to out.
func New(in io.Reader, out io.Writer, a Answerer, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{in: in, out: out, answer: a, logger: logger}
}

type line struct {
	text string
	err  error
}

// Run loops until "quit", end of input or ctx is done. Queries are handled one
// at a time. A nil return means a normal end of session.
func (s *Shell) Run(ctx context.Context) error {
	s.printBanner()
	if s.OnReady != nil {
		s.OnReady()
	}

	lines := make(chan line)
	next := make(chan struct{})
	done := make(chan struct{})
	go s.readLines(lines, next, done)
	defer close(done)

	for {
		fmt.Fprint(s.out, prompt)

		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			s.logger.Info("session interrupted")
			return nil
		case l := <-lines:
			if l.err != nil {
				if l.err == io.EOF {
					fmt.Fprintln(s.out)
					s.logger.Info("end of input")
					return nil
				}
				return fmt.Errorf("read query: %w", l.err)
			}

			query := strings.TrimSpace(l.text)
			if strings.EqualFold(query, quit) {
				s.logger.Info("quit requested")
				return nil
			}
			if query != "" {
				answer := s.answer.Answer(ctx, query)
				fmt.Fprintf(s.out, "\nResponse:\n%s\n", answer)
			}
		}

		next <- struct{}{}
	}
}

// readLines delivers one line per request on next, so nothing is read ahead of
// the prompt. It exits when done is closed or the reader fails.
func (s *Shell) readLines(lines chan<- line, next, done <-chan struct{}) {
	reader := bufio.NewReader(s.in)
	for {
		text, err := reader.ReadString('\n')
		if err == io.EOF && text != "" {
			err = nil
		}
		select {
		case lines <- line{text: text, err: err}:
		case <-done:
			return
		}
		if err != nil {
			return
		}
		select {
		case <-next:
		case <-done:
			return
		}
	}
}

func (s *Shell) printBanner() {
	fmt.Fprintln(s.out, banner)
	fmt.Fprintln(s.out, "Example queries:")
	for _, q := range exampleQueries {
		fmt.Fprintf(s.out, "- %s\n", q)
	}
}
