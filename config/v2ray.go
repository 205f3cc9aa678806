package config

// V2ray 代理进程
type V2ray struct {
	ConfigPath   *string `json:"configPath" default:"/etc/v2ray/config.json"`
	TemplatePath string  `json:"templatePath"`
	CtlPath      *string `json:"ctlPath" default:"/usr/bin/v2ray/v2ctl"`
	ProcessName  *string `json:"processName" default:"v2ray"`
	StatusCmd    *string `json:"statusCmd" default:"systemctl is-active --quiet v2ray"`
	StartCmd     *string `json:"startCmd" default:"systemctl start v2ray"`
	StopCmd      *string `json:"stopCmd" default:"systemctl stop v2ray"`
	RestartCmd   *string `json:"restartCmd" default:"systemctl restart v2ray"`
}

// Jobs 定时任务
type Jobs struct {
	ConfigCheckInterval *string `json:"configCheckInterval" default:"10s"`
	TrafficInterval     *string `json:"trafficInterval" default:"10s"`
	DisableDepleted     *bool   `json:"disableDepleted" default:"true"`
	WatchTemplate       *bool   `json:"watchTemplate" default:"true"`
}
