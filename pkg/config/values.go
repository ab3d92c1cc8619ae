package config

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"dsbench/pkg/common"
)

// ScanValues parses a comma-separated list of integers lazily. Empty tokens
// are skipped and surrounding spaces trimmed. Each token is parsed with base
// prefixes (0x, 0o, 0b, leading 0 for octal) and an optional sign.
//
// A malformed token yields an error wrapping common.ErrInvalidConfiguration
// and ends the sequence; values before it have already been yielded.
func ScanValues(s string) iter.Seq2[common.ValueType, error] {
	return func(yield func(common.ValueType, error) bool) {
		for i, tok := range strings.Split(s, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			v, err := parseToken(tok)
			if err != nil {
				yield(0, fmt.Errorf("%w: token %d %q: %v", common.ErrInvalidConfiguration, i, tok, err))
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

func parseToken(tok string) (common.ValueType, error) {
	// base 0 would accept digit separators
	if strings.Contains(tok, "_") {
		return 0, strconv.ErrSyntax
	}
	v, err := strconv.ParseInt(tok, 0, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok {
			return 0, ne.Err
		}
		return 0, err
	}
	return v, nil
}
