package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "repoindex",
		Short: "Generate package repository index documents",
		Long: `Repoindex classifies distributable artifacts (.deb and .rpm), selects
the subset applicable to a requested distribution, and generates the
index documents package managers need to discover and verify them:

  - Packages and Release for apt
  - primary.xml, filelists.xml, other.xml and repomd.xml for dnf/yum

Generation is reproducible: identical inputs always yield identical
bytes, including the compressed forms.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(NewGenerateCmd())

	return rootCmd
}
