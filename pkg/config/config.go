package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tendant/simple-provision/pkg/notification"
	"github.com/tendant/simple-provision/pkg/platform"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port uint16 `env:"SERVER_PORT" env-default:"4000"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds PostgreSQL database configuration
type DatabaseConfig struct {
	Host     string `env:"PROVISION_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"PROVISION_PG_PORT" env-default:"5432"`
	Database string `env:"PROVISION_PG_DATABASE" env-default:"provision_db"`
	User     string `env:"PROVISION_PG_USER" env-default:"provision"`
	Password string `env:"PROVISION_PG_PASSWORD" env-default:"pwd"`
	Schema   string `env:"PROVISION_PG_SCHEMA" env-default:"public"`
}

// ToDatabaseURL converts the config to a PostgreSQL connection URL
func (d DatabaseConfig) ToDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s,public",
		d.User, d.Password, d.Host, d.Port, d.Database, d.Schema)
}

// ToMigrateURL converts the config to the URL scheme the pgx/v5 migrate
// driver expects.
func (d DatabaseConfig) ToMigrateURL() string {
	return fmt.Sprintf("pgx5://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s,public",
		d.User, d.Password, d.Host, d.Port, d.Database, d.Schema)
}

// EmailConfig holds SMTP email configuration
type EmailConfig struct {
	Host     string `env:"EMAIL_HOST" env-default:"localhost"`
	Port     uint16 `env:"EMAIL_PORT" env-default:"1025"`
	Username string `env:"EMAIL_USERNAME" env-default:"noreply@example.com"`
	Password string `env:"EMAIL_PASSWORD" env-default:"pwd"`
	From     string `env:"EMAIL_FROM" env-default:"noreply@example.com"`
	TLS      bool   `env:"EMAIL_TLS" env-default:"false"`
}

// ToSMTPConfig converts the config to a notification.SMTPConfig
func (e EmailConfig) ToSMTPConfig() notification.SMTPConfig {
	return notification.SMTPConfig{
		Host:     e.Host,
		Port:     int(e.Port),
		Username: e.Username,
		Password: e.Password,
		From:     e.From,
		TLS:      e.TLS,
	}
}

// PlatformsConfig holds the outbound platform endpoints and the
// provisioning timeout.
type PlatformsConfig struct {
	LMSBaseURL       string `env:"LMS_BASE_URL" env-default:"http://localhost:8081"`
	EcommerceBaseURL string `env:"ECOMMERCE_BASE_URL" env-default:"http://localhost:8082"`
	DMSBaseURL       string `env:"DMS_BASE_URL" env-default:"http://localhost:8083"`

	// Fixed service credential exchanged for the DMS bearer token.
	DMSServiceUsername string `env:"DMS_SERVICE_USERNAME" env-default:"provisioner"`
	DMSServicePassword string `env:"DMS_SERVICE_PASSWORD" env-default:"pwd"`

	TimeoutSeconds uint `env:"PROVISION_TIMEOUT_SECONDS" env-default:"60"`

	// EnabledPlatforms are the platforms targeted when a request does not
	// name any, comma separated.
	EnabledPlatforms string `env:"ENABLED_PLATFORMS" env-default:"lms,ecommerce,dms"`
}

// Timeout returns the per-call provisioning timeout.
func (p PlatformsConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// DefaultPlatforms parses the enabled platform list.
func (p PlatformsConfig) DefaultPlatforms() ([]platform.Platform, error) {
	raw := strings.TrimSpace(p.EnabledPlatforms)
	if raw == "" {
		return nil, nil
	}

	var platforms []platform.Platform
	for _, part := range strings.Split(raw, ",") {
		parsed, err := platform.Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		platforms = append(platforms, parsed)
	}
	return platforms, nil
}

// AppConfig aggregates the full configuration surface.
type AppConfig struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Email     EmailConfig
	Platforms PlatformsConfig
}
