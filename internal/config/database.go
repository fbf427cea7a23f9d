// internal/config/database.go
package config

import (
	"fmt"
)

// DSN builds the postgres connection string. DATABASE_URL, when set,
// takes precedence over the individual DB_* variables.
func (d *DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}
