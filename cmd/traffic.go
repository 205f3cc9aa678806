package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"v2-panel/core"

	"github.com/spf13/cobra"
)

var trafficReset bool
var trafficCmd = &cobra.Command{
	Use:          "traffic",
	Short:        "Query inbound traffic from the v2ray stats api",
	RunE:         trafficCmdF,
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(trafficCmd)
	trafficCmd.Flags().BoolVar(&trafficReset, "reset", false, "reset the counters after reading; the daemon will miss this traffic")
}

func trafficCmdF(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	template, err := core.LoadTemplate(cfg.V2ray.TemplatePath)
	if err != nil {
		return err
	}
	apiPort, err := template.APIPort()
	if err != nil {
		return err
	}

	stats := core.NewStatsClient(*cfg.V2ray.CtlPath, apiPort, core.ExecCommander{})
	traffics, err := stats.InboundTraffic(context.Background(), trafficReset)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TAG\tUPLINK\tDOWNLINK")
	for _, t := range traffics {
		fmt.Fprintf(w, "%s\t%d\t%d\n", t.Tag, t.Uplink, t.Downlink)
	}
	return w.Flush()
}
