// Package chunker splits content text into passages for search indexing.
package chunker

import (
	"strings"
)

const (
	DefaultTargetSize = 200
	DefaultMaxSize    = 320
)

// Options configures chunking behavior.
type Options struct {
	TargetSize int
	MaxSize    int
}

// DefaultOptions returns default chunking options.
func DefaultOptions() Options {
	return Options{
		TargetSize: DefaultTargetSize,
		MaxSize:    DefaultMaxSize,
	}
}

// Passage is one indexed slice of a longer text.
type Passage struct {
	Seq  int
	Text string
}

// Chunk splits text into passages. Text no longer than MaxSize returns a
// single passage with whitespace collapsed.
func Chunk(text string, opts Options) []Passage {
	if opts.TargetSize == 0 {
		opts = DefaultOptions()
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if len(text) <= opts.MaxSize {
		return []Passage{{Seq: 0, Text: collapse(text)}}
	}

	var pieces []string
	for _, para := range splitParagraphs(text) {
		if len(para) <= opts.MaxSize {
			pieces = append(pieces, para)
			continue
		}
		for _, s := range splitSentences(para) {
			if len(s) > opts.MaxSize {
				pieces = append(pieces, hardSplit(s, opts.TargetSize)...)
				continue
			}
			pieces = append(pieces, s)
		}
	}

	return merge(pieces, opts)
}

// splitParagraphs splits on blank lines and collapses inner whitespace.
func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = collapse(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitSentences breaks a paragraph after ". ", "! " and "? ".
func splitSentences(para string) []string {
	var out []string
	start := 0
	for i := 0; i < len(para)-1; i++ {
		switch para[i] {
		case '.', '!', '?':
			if para[i+1] == ' ' {
				out = append(out, strings.TrimSpace(para[start:i+1]))
				start = i + 2
			}
		}
	}
	if rest := strings.TrimSpace(para[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

// hardSplit breaks a run of text on word boundaries near target.
func hardSplit(text string, target int) []string {
	var out []string
	var cur []string
	curLen := 0
	for _, w := range strings.Fields(text) {
		if curLen+len(w) > target && len(cur) > 0 {
			out = append(out, strings.Join(cur, " "))
			cur, curLen = nil, 0
		}
		cur = append(cur, w)
		curLen += len(w) + 1
	}
	if len(cur) > 0 {
		out = append(out, strings.Join(cur, " "))
	}
	return out
}

// merge combines small pieces up to the target size.
func merge(pieces []string, opts Options) []Passage {
	var out []Passage
	var accum string
	flush := func() {
		if accum == "" {
			return
		}
		out = append(out, Passage{Seq: len(out), Text: accum})
		accum = ""
	}

	for _, p := range pieces {
		if accum == "" {
			accum = p
			continue
		}
		if len(accum)+1+len(p) <= opts.TargetSize {
			accum += " " + p
			continue
		}
		flush()
		accum = p
	}
	flush()
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
