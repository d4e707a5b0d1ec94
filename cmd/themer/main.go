// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "themer",
	Short: "Themer - theme designer for --sl- design tokens",
	Long: `Themer hosts a theme designer: pick a base theme, adjust its colors and
text modes, preview the result live, export it as CSS or JSON and share it
as a link.

The theme subcommands run the same derivation offline.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
