package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/kataks/rulex/spec"
	"github.com/kataks/rulex/tokenizer"
	"github.com/spf13/cobra"
)

var tokenizeFlags = struct {
	source *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "tokenize <compiled spec path>",
		Short:   "Tokenize a text stream",
		Example: `  cat src | rulex tokenize asm.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runTokenize,
	}
	tokenizeFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	rootCmd.AddCommand(cmd)
}

func runTokenize(cmd *cobra.Command, args []string) error {
	cspec, err := readCompiledSpec(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a compiled spec: %w", err)
	}
	t, err := cspec.Tokenizer()
	if err != nil {
		return err
	}

	var src io.Reader = os.Stdin
	if *tokenizeFlags.source != "" {
		f, err := os.Open(*tokenizeFlags.source)
		if err != nil {
			return fmt.Errorf("Cannot open the source file %s: %w", *tokenizeFlags.source, err)
		}
		defer f.Close()
		src = f
	}

	var tokens []tokenizer.Token
	if _, err := t.Tokenize(src, &tokens); err != nil {
		return err
	}
	for _, tok := range tokens {
		name := cspec.KindName(tok.Type)
		if name == "" {
			name = fmt.Sprintf("%v", tok.Type)
		}
		fmt.Fprintf(os.Stdout, "%v:%v: %v %q\n", tok.Row, tok.Col, name, tok.Text)
	}
	if n := t.Errors(); n > 0 {
		fmt.Fprintf(os.Stderr, "%v invalid tokens\n", n)
	}
	return nil
}

func readCompiledSpec(path string) (*spec.CompiledSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	cspec := &spec.CompiledSpec{}
	err = json.Unmarshal(data, cspec)
	if err != nil {
		return nil, err
	}
	return cspec, nil
}
