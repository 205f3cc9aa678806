package config

type Redis struct {
	Enabled  *bool   `json:"enabled" default:"false"`
	Url      *string `json:"url" default:"127.0.0.1:6379"`
	Password string  `json:"password"`
	Prefix   *string `json:"prefix" default:"v2-panel"`
	Database *int    `json:"database" default:"0"`
	PoolSize *int    `json:"poolSize" default:"4"`
}
