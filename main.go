// Copyright © 2026 The sexp authors

package main

import "github.com/sexplang/sexp/cmd"

func main() {
	cmd.Execute()
}
