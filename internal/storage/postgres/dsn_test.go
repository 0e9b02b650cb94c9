package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/GoSim-25-26J-441/tee-designer/config"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want string
	}{
		{
			name: "defaults sslmode to disable",
			cfg:  config.DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "designs"},
			want: "host='db' port=5433 user='u' password='p' dbname='designs' sslmode=disable",
		},
		{
			name: "sslmode and timeout",
			cfg: config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "designs",
				SSLMode: "verify-full", ConnectTimeout: 3 * time.Second},
			want: "host='db' port=5432 user='u' password='p' dbname='designs' sslmode=verify-full connect_timeout=3",
		},
		{
			name: "quotes and backslashes are escaped",
			cfg:  config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: `it's a \secret`, Name: "designs"},
			want: `host='db' port=5432 user='u' password='it\'s a \\secret' dbname='designs' sslmode=disable`,
		},
		{
			name: "empty password",
			cfg:  config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Name: "designs", SSLMode: "require"},
			want: "host='db' port=5432 user='u' password='' dbname='designs' sslmode=require",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DSN(&tt.cfg))
		})
	}
}
