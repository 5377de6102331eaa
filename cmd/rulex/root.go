package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rulex",
	Short: "Compile token rules into a DFA table and tokenize text streams",
	Long: `rulex provides two features:
- Compiles a set of token rules into a portable DFA table.
- Tokenizes a text stream according to the compiled rules.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
