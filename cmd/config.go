package cmd

import (
	"context"
	"fmt"
	"v2-panel/codec"
	"v2-panel/config"
	"v2-panel/core"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate the v2ray config from the database",
}

var configGenCmd = &cobra.Command{
	Use:          "gen",
	Short:        "Print the generated v2ray config",
	RunE:         configGenCmdF,
	SilenceUsage: true,
}

var configCheckCmd = &cobra.Command{
	Use:          "check",
	Short:        "Write the v2ray config and restart v2ray if it changed",
	RunE:         configCheckCmdF,
	SilenceUsage: true,
}

func init() {
	configCmd.AddCommand(configGenCmd, configCheckCmd)
	RootCmd.AddCommand(configCmd)
}

func newGenerator(ctx context.Context, cfg *config.Config) (*core.Generator, core.Store, error) {
	template, err := core.LoadTemplate(cfg.V2ray.TemplatePath)
	if err != nil {
		return nil, nil, err
	}
	store, err := core.NewStore(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	v2ray := core.NewV2ray(&cfg.V2ray, core.ExecCommander{})
	return core.NewGenerator(*cfg.V2ray.ConfigPath, template, store, v2ray), store, nil
}

func configGenCmdF(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()
	generator, store, err := newGenerator(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	v2Config, err := generator.Generate(ctx)
	if err != nil {
		return err
	}
	b, err := codec.MarshalConfig(v2Config)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

func configCheckCmdF(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	initLogger(cfg)
	ctx := context.Background()
	generator, store, err := newGenerator(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	return generator.Check(ctx)
}
