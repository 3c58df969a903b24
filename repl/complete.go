// Copyright © 2026 The sexp authors

package repl

import (
	"sort"
	"strings"

	"github.com/sexplang/sexp/lisp"
)

// symbolCompleter implements readline.AutoCompleter by enumerating the
// keywords of the language and the names in the interpreter's registry.
type symbolCompleter struct {
	env *lisp.Env
}

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed (backwards from cursor to whitespace or open paren).
	start := pos
	for start > 0 {
		ch := line[start-1]
		if ch == ' ' || ch == '\t' || ch == '(' || ch == '\n' {
			break
		}
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	candidates := c.collectNames(prefix)
	if len(candidates) == 0 {
		return nil, 0
	}

	// Build completions: each entry is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, name := range candidates {
		result = append(result, []rune(name[len(prefix):]))
	}
	return result, len(prefix)
}

func (c *symbolCompleter) collectNames(prefix string) []string {
	seen := make(map[string]bool)
	var result []string
	add := func(name string) {
		if strings.HasPrefix(name, prefix) && !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}

	for _, op := range lisp.SpecialOps() {
		add(op.Name)
	}
	// Unqualified names from the default namespace.
	for _, name := range c.env.User.Names() {
		add(name)
	}
	// Qualified names from every namespace.
	reg := c.env.Registry()
	for _, path := range reg.Paths() {
		add(path + ".")
		if !strings.HasPrefix(prefix, path+".") {
			continue
		}
		ns, err := reg.GetNamespace(path)
		if err != nil {
			continue
		}
		for _, name := range ns.Names() {
			add(path + "." + name)
		}
	}

	sort.Strings(result)
	return result
}
