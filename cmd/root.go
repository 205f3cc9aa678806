package cmd

import "github.com/spf13/cobra"

var RootCmd = &cobra.Command{
	Use:   "v2-panel",
	Short: "Sync v2ray config and traffic with the panel database",
}

func init() {
	RootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file to use.")
}

func Run(args []string) error {
	RootCmd.SetArgs(args)
	return RootCmd.Execute()
}
