package main

import (
	"fmt"
	"os"

	"github.com/kataks/rulex/machine"
	"github.com/spf13/cobra"
)

var showFlags = struct {
	text *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "show <compiled spec path>",
		Short: "Print the state table of a compiled spec",
		Example: `  rulex show asm.json
  rulex show --text asm.dfa`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}
	showFlags.text = cmd.Flags().Bool("text", false, "read the file as a text-format machine instead of JSON")
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	if *showFlags.text {
		m := machine.New()
		if err := m.Load(args[0]); err != nil {
			return err
		}
		m.Describe(os.Stdout)
		return nil
	}

	cspec, err := readCompiledSpec(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a compiled spec: %w", err)
	}
	t, err := cspec.Tokenizer()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "name: %v\n", cspec.Name)
	for _, k := range cspec.Kinds {
		note := ""
		if k.Skip {
			note = " (skip)"
		}
		fmt.Fprintf(os.Stdout, "%4v %v%v\n", k.Type, k.Name, note)
	}
	fmt.Fprintf(os.Stdout, "\n")
	t.Machine().Describe(os.Stdout)
	return nil
}
