package cmd

import (
	"github.com/spf13/cobra"
)

const appName = "escpr"

var configPath string

// Execute builds and runs the escpr root command.
func Execute() error {
	root := &cobra.Command{
		Use:   appName,
		Short: appName + " - ESC/P-R raster print job capture, decode and encode",
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to escpr.yaml (optional)")

	root.AddCommand(DefineServerCommand())
	root.AddCommand(DefineDecodeCommand())
	root.AddCommand(DefineEncodeCommand())

	return root.Execute()
}
