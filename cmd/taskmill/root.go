package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set by goreleaser ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "taskmill",
	Short: "Extract maintenance task lists from Word documents",
	Long: `taskmill parses .docx maintenance manuals, recognizes numbered work
steps with a cascade of extraction strategies, numbers the embedded
figures, and packages the result as an Excel workbook plus a zip
archive ready for import.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("taskmill %s\ncommit: %s\nbuilt:  %s\n", version, commit, date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
