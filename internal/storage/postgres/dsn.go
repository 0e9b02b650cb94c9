package postgres

import (
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/tee-designer/config"
)

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// DSN builds a lib/pq keyword/value connection string. Values are quoted so
// passwords with spaces or quotes survive.
func DSN(cfg *config.DatabaseConfig) string {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	parts := []string{
		"host=" + quote(cfg.Host),
		fmt.Sprintf("port=%d", cfg.Port),
		"user=" + quote(cfg.User),
		"password=" + quote(cfg.Password),
		"dbname=" + quote(cfg.Name),
		"sslmode=" + sslmode,
	}
	if secs := int(cfg.ConnectTimeout.Seconds()); secs > 0 {
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", secs))
	}
	return strings.Join(parts, " ")
}

func quote(v string) string {
	return "'" + dsnEscaper.Replace(v) + "'"
}
