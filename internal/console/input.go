package console

import (
	"bufio"
	"io"
	"strings"
)

// tokenReader yields whitespace-separated tokens across lines. Tokens left on
// the current line stay queued for the next prompt until discarded.
type tokenReader struct {
	scanner *bufio.Scanner
	pending []string
}

func newTokenReader(r io.Reader) *tokenReader {
	return &tokenReader{scanner: bufio.NewScanner(r)}
}

// next returns the next token, or io.EOF once input is exhausted.
func (t *tokenReader) next() (string, error) {
	for len(t.pending) == 0 {
		if !t.scanner.Scan() {
			if err := t.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		t.pending = strings.Fields(t.scanner.Text())
	}
	tok := t.pending[0]
	t.pending = t.pending[1:]
	return tok, nil
}

// discardLine drops whatever remains of the current input line.
func (t *tokenReader) discardLine() {
	t.pending = nil
}
