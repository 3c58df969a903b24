// Copyright © 2026 The sexp authors

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeString(t *testing.T) {
	used := make(map[string]bool)
	for tok := Type(0); tok < numTokenTypes; tok++ {
		str := tok.String()
		if str == "" {
			t.Errorf("token type %x has empty string value", tok)
			continue
		}
		if used[str] {
			t.Errorf("token type string used twice: %v", tok)
		}
		used[str] = true
	}
	assert.Equal(t, "invalid", Type(numTokenTypes+1).String())
}

func TestLocationString(t *testing.T) {
	assert.Equal(t, "stdin", (&Location{File: "stdin", Pos: -1}).String())
	assert.Equal(t, "stdin[4]", (&Location{File: "stdin", Pos: 4}).String())
	assert.Equal(t, "stdin:2", (&Location{File: "stdin", Pos: 4, Line: 2}).String())
	assert.Equal(t, "stdin:2:3", (&Location{File: "stdin", Pos: 4, Line: 2, Col: 3}).String())
}
