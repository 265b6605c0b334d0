package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the rna-engine version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rna-engine %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
