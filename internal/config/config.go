package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr string `yaml:"http_addr"`

	DBDriver string `yaml:"db_driver"`
	DBDSN    string `yaml:"db_dsn"`

	AuthSecret    string `yaml:"auth_secret"`
	AdminUser     string `yaml:"admin_user"`
	AdminPassHash string `yaml:"admin_pass_hash"` // bcrypt

	CORSOrigins []string `yaml:"cors_origins"`

	// Admin addresses for simulated report dispatch.
	AdminEmails []string `yaml:"admin_emails"`
}

// FromEnv builds the config from environment variables. If
// CONFIG_FILE points at a YAML file, its non-empty fields override
// the environment.
func FromEnv() Config {
	cfg := Config{
		HTTPAddr:      envOr("HTTP_ADDR", ":8080"),
		DBDriver:      envOr("DB_DRIVER", "sqlite"),
		DBDSN:         envOr("DB_DSN", ""),
		AuthSecret:    envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:     envOr("ADMIN_USER", "admin"),
		AdminPassHash: envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),
		CORSOrigins:   csvOr("CORS_ORIGINS", "http://localhost:3000"),
		AdminEmails:   csvOr("ADMIN_EMAILS", ""),
	}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			// Startup without the override file is fine; main logs
			// the effective settings anyway.
			return cfg
		}
	}
	return cfg
}

func (c *Config) mergeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var file Config
	if err := yaml.NewDecoder(f).Decode(&file); err != nil {
		return err
	}
	if file.HTTPAddr != "" {
		c.HTTPAddr = file.HTTPAddr
	}
	if file.DBDriver != "" {
		c.DBDriver = file.DBDriver
	}
	if file.DBDSN != "" {
		c.DBDSN = file.DBDSN
	}
	if file.AuthSecret != "" {
		c.AuthSecret = file.AuthSecret
	}
	if file.AdminUser != "" {
		c.AdminUser = file.AdminUser
	}
	if file.AdminPassHash != "" {
		c.AdminPassHash = file.AdminPassHash
	}
	if len(file.CORSOrigins) > 0 {
		c.CORSOrigins = file.CORSOrigins
	}
	if len(file.AdminEmails) > 0 {
		c.AdminEmails = file.AdminEmails
	}
	return nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
