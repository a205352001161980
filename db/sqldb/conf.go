package sqldb

import "github.com/kelseyhightower/envconfig"

type Conf struct {
	Type string `json:"type" envconfig:"DB_TYPE" default:"mysql"` // mysql, pgsql, sqlite
	Host string `json:"host" envconfig:"DB_HOST"`                 // "" = driver default, "/..." = unix socket
	Port int    `json:"port" envconfig:"DB_PORT"`                 // 0 = driver default
	User string `json:"user" envconfig:"DB_USER"`
	PW   string `json:"pw" envconfig:"DB_PASS"`
	DB   string `json:"db" envconfig:"DB_NAME"`
	TZ   string `json:"tz" envconfig:"DB_TZ"`   // Connection Timezone
	DSN  string `json:"dsn" envconfig:"DB_DSN"` // To Overwrite Default DSN
}

// LoadConfFromEnv fills a Conf from <prefix>_DB_TYPE, _DB_HOST, _DB_PORT,
// _DB_USER, _DB_PASS, _DB_NAME, _DB_TZ and _DB_DSN.
func LoadConfFromEnv(prefix string) (*Conf, error) {
	var c Conf
	if err := envconfig.Process(prefix, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
