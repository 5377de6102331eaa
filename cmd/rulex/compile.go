package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	verr "github.com/kataks/rulex/error"
	"github.com/kataks/rulex/spec"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output *string
	compLv *int
	text   *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile <rule file path>",
		Short:   "Compile token rules into a DFA table",
		Example: `  rulex compile asm.rulex -o asm.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.compLv = cmd.Flags().Int("compression-level", spec.CompressionLevelMax, "compression level of the transition table (0-2)")
	compileFlags.text = cmd.Flags().Bool("text", false, "write the raw machine in the text format instead of JSON")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) (retErr error) {
	var rulePath string
	if len(args) > 0 {
		rulePath = args[0]
	}
	defer func() {
		if retErr == nil {
			return
		}
		name := "stdin"
		if rulePath != "" {
			name = rulePath
		}
		switch err := retErr.(type) {
		case verr.RuleErrors:
			for _, e := range err {
				e.FilePath = rulePath
				e.SourceName = name
			}
		case *verr.RuleError:
			err.FilePath = rulePath
			err.SourceName = name
		}
	}()

	var src io.Reader = os.Stdin
	if rulePath != "" {
		f, err := os.Open(rulePath)
		if err != nil {
			return fmt.Errorf("Cannot open the rule file %s: %w", rulePath, err)
		}
		defer f.Close()
		src = f
	}

	rs, err := spec.Parse(src)
	if err != nil {
		return err
	}
	rs.Name = ruleSetName(rulePath)

	cspec, err := spec.Compile(rs, *compileFlags.compLv)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if *compileFlags.output != "" {
		f, err := os.OpenFile(*compileFlags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if *compileFlags.text {
		t, err := cspec.Tokenizer()
		if err != nil {
			return err
		}
		return t.Machine().Write(w)
	}

	b, err := json.Marshal(cspec)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%v\n", string(b))
	return nil
}

func ruleSetName(path string) string {
	if path == "" {
		return "stdin"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
