package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	kilo "github.com/wegfawefgawefg/kilo-go"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: kilo <filename>\n")
		os.Exit(1)
	}

	// Refuse to start before touching the terminal: raw mode makes no
	// sense on a pipe.
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "kilo: stdin and stdout must be a terminal")
		os.Exit(1)
	}

	e, err := kilo.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing editor: %s\n", err)
		os.Exit(1)
	}

	filename := os.Args[1]
	e.SelectSyntaxHighlight(filename)
	if err := e.Open(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening file: %s\n", err)
		os.Exit(1)
	}

	if err := e.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
