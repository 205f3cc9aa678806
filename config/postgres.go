package config

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

type Database struct {
	Driver   *string  `json:"driver" default:"sqlite"`
	Postgres Postgres `json:"postgres"`
	Sqlite   Sqlite   `json:"sqlite"`
}

type Postgres struct {
	Address  *string `json:"address" default:"127.0.0.1:5432"`
	Database *string `json:"database" default:"v2-ui"`
	Username *string `json:"username" default:"postgres"`
	Password string  `json:"password"`
}

type Sqlite struct {
	Path *string `json:"path" default:"/etc/v2-ui/v2-ui.db"`
}
