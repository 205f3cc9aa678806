package config

const (
	LogModeStdout = "stdout"
	LogModeFile   = "file"
)

// Logger 日志
type Logger struct {
	Level      *string `json:"level" default:"info"`
	Mode       *string `json:"mode" default:"stdout"`
	Filename   *string `json:"filename" default:"v2-panel.log"`
	MaxSize    *int    `json:"maxSize" default:"10"`
	MaxBackups *int    `json:"maxBackups" default:"3"`
	MaxAge     *int    `json:"maxAge" default:"28"`
}

// Debugger pprof
type Debugger struct {
	Enable *bool   `json:"enable" default:"false"`
	Listen *string `json:"listen" default:"127.0.0.1:6060"`
}
