package cmd

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"v2-panel/config"
	"v2-panel/core"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var daemon bool
var startCmd = &cobra.Command{
	Use:          "start",
	Short:        "Start the sync daemon",
	RunE:         startCmdF,
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(startCmd)
	startCmd.Flags().BoolVarP(&daemon, "daemon", "d", false, "run with daemon?")
	RootCmd.RunE = startCmdF
}

func startCmdF(cmd *cobra.Command, args []string) error {
	// 加载配置文件
	cfg, err := loadConfig(cmd)
	if err != nil {
		log.Errorf("Error loading configuration: %v", err)
		return err
	}

	// 后台启动
	if daemon {
		return runDaemon(getConfigPath(cmd))
	}

	interruptChan := make(chan os.Signal, 1)
	return runServer(cfg, interruptChan)
}

func runDaemon(configPath string) error {
	bin, _ := getAppDir()
	command := exec.Command(bin, "start", "-c", configPath)
	if err := command.Start(); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	log.Infof("Server start, [PID] %d running...", command.Process.Pid)
	return ioutil.WriteFile(getLockPath(), []byte(fmt.Sprintf("%d", command.Process.Pid)), 0644)
}

func runServer(cfg *config.Config, interruptChan chan os.Signal) error {
	initLogger(cfg)

	server, err := core.NewServer(context.Background(), cfg)
	if err != nil {
		log.Errorf("Fail to create server: %v", err)
		return err
	}
	defer server.Close()

	if err := server.Start(); err != nil {
		log.Errorf("Fail to start server: %v", err)
		return err
	}
	log.Infof("%s started", *cfg.Name)

	// wait for kill signal before attempting to gracefully shutdown
	// the running service
	signal.Notify(interruptChan, syscall.SIGINT, syscall.SIGTERM)
	<-interruptChan
	log.Info("Shutting down")

	return nil
}
