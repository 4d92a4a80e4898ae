package cmd

import (
	"os"

	"github.com/mosaicmint/mosaic/logx"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mosaicd",
	Short: "Mosaic chunk-claim mint node CLI",
	Long:  "Command line interface for running and managing a mosaic chunk-claim mint node.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed:", err)
		os.Exit(1)
	}
}
