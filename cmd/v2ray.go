package cmd

import (
	"context"
	"fmt"
	"v2-panel/core"

	"github.com/spf13/cobra"
)

var v2rayCmd = &cobra.Command{
	Use:   "v2ray",
	Short: "Control the v2ray process",
}

func init() {
	for _, c := range []*cobra.Command{
		{Use: "start", Short: "Start v2ray", RunE: v2rayCmdF},
		{Use: "stop", Short: "Stop v2ray", RunE: v2rayCmdF},
		{Use: "restart", Short: "Restart v2ray", RunE: v2rayCmdF},
		{Use: "status", Short: "Show whether v2ray is running", RunE: v2rayCmdF},
	} {
		c.SilenceUsage = true
		v2rayCmd.AddCommand(c)
	}
	RootCmd.AddCommand(v2rayCmd)
}

func v2rayCmdF(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	v2ray := core.NewV2ray(&cfg.V2ray, core.ExecCommander{})
	ctx := context.Background()

	switch cmd.Name() {
	case "status":
		if v2ray.IsRunning(ctx) {
			fmt.Fprintln(cmd.OutOrStdout(), "running")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "stopped")
		}
		return nil
	case "restart":
		return v2ray.Restart(true)
	case "start":
		if err := v2ray.Start(ctx); err != nil {
			return err
		}
	case "stop":
		if err := v2ray.Stop(ctx); err != nil {
			return err
		}
	}

	// start and stop are delayed; wait for the command to run
	return v2ray.Wait()
}
