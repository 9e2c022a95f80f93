// Package challenge implements the typing gate that adds friction to
// impulsive unblocking: the user must type back a sequence of random words
// before the hosts file is touched.
package challenge

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"gwd/internal/guard/domain"
)

//go:embed words.txt
var rawWords string

var wordList = strings.Fields(rawWords)

// Challenge presents a word-typing verification step on In/Out. The zero
// word count always passes without prompting; that is the documented escape
// hatch for scripting and tests.
type Challenge struct {
	In  io.Reader
	Out io.Writer

	words []string
	perm  func(n int) []int
}

// New returns a Challenge using the embedded word list and the given streams.
func New(in io.Reader, out io.Writer) *Challenge {
	return &Challenge{
		In:    in,
		Out:   out,
		words: wordList,
		perm:  rand.Perm,
	}
}

// Run presents a wordCount-word challenge for the given domain. The typed
// line must contain exactly the presented words, in order; anything else
// fails with domain.ErrChallengeFailed. One attempt only.
func (c *Challenge) Run(name string, wordCount int) error {
	if wordCount <= 0 {
		return nil
	}

	sequence := c.pick(wordCount)
	fmt.Fprintf(c.Out, "To unblock '%s', type the following %d words exactly:\n\n", name, len(sequence))
	fmt.Fprintf(c.Out, "  %s\n\n> ", strings.Join(sequence, " "))

	scanner := bufio.NewScanner(c.In)
	if !scanner.Scan() {
		return domain.ErrChallengeFailed
	}
	typed := strings.Fields(scanner.Text())
	if len(typed) != len(sequence) {
		return domain.ErrChallengeFailed
	}
	for i, word := range sequence {
		if typed[i] != word {
			return domain.ErrChallengeFailed
		}
	}
	return nil
}

// pick samples n words without replacement; when n exceeds the list the whole
// shuffled list is returned.
func (c *Challenge) pick(n int) []string {
	if n > len(c.words) {
		n = len(c.words)
	}
	idx := c.perm(len(c.words))
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, c.words[i])
	}
	return out
}
