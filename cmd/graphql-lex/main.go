// Command graphql-lex tokenizes a GraphQL document and prints its tokens
// to stdout, or a formatted SyntaxError to stderr.
//
// Grounded on cmd/terminal/main.go's minimal flag-driven CLI shape.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/holla2040/graphql-lexer/internal/lexer"
	"github.com/holla2040/graphql-lexer/internal/source"
	"github.com/holla2040/graphql-lexer/internal/syntaxerror"
	"github.com/holla2040/graphql-lexer/internal/token"
)

func main() {
	strict := flag.Bool("strict", false, "raise UnterminatedString on a raw newline inside a single-line string")
	flag.Parse()

	var (
		name string
		data []byte
		err  error
	)
	if path := flag.Arg(0); path != "" {
		name = path
		data, err = os.ReadFile(path)
	} else {
		name = "<stdin>"
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "graphql-lex: %v\n", err)
		os.Exit(1)
	}

	if err := run(name, data, *strict, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(name string, data []byte, strict bool, w io.Writer) error {
	src := source.New(name, data)

	var opts []lexer.Option
	if strict {
		opts = append(opts, lexer.StrictMode())
	}
	lx, err := lexer.New(data, opts...)
	if err != nil {
		return formatErr(src, err)
	}

	for {
		more, err := lx.Advance()
		if err != nil {
			return formatErr(src, err)
		}
		printToken(w, lx)
		if !more {
			break
		}
	}
	return nil
}

func printToken(w io.Writer, lx *lexer.Lexer) {
	kind := lx.Kind()
	switch kind {
	case token.Name, token.Integer, token.Float, token.String, token.BlockString, token.Comment:
		fmt.Fprintf(w, "%-12s %4d:%-4d %q\n", kind, lx.Line(), lx.Column(), lx.Value())
	default:
		fmt.Fprintf(w, "%-12s %4d:%-4d\n", kind, lx.Line(), lx.Column())
	}
}

func formatErr(src *source.Source, err error) error {
	se, ok := err.(*lexer.SyntaxError)
	if !ok {
		return err
	}
	return fmt.Errorf("%s", syntaxerror.Format(src, se.Line, se.Column, se.Message))
}
