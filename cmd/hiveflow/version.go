package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hiveflow/hiveflow/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the hiveflow version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hiveflow %s\n", version.Get())
	},
}
