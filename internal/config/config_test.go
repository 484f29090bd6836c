package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		jwtSecret   string
		dbPassword  string
		port        string
		expectError bool
	}{
		{"Development with defaults", "development", "your-secret-key-change-in-production", "password", "8000", false},
		{"Production with default JWT secret", "production", "your-secret-key-change-in-production", "strong-db-password", "8000", true},
		{"Production with short JWT secret", "production", "short", "strong-db-password", "8000", true},
		{"Prod with default DB password", "prod", "secure-secret-at-least-32-chars-long", "password", "8000", true},
		{"Production fully configured", "production", "secure-secret-at-least-32-chars-long", "strong-db-password", "8000", false},
		{"Missing port", "development", "secret", "password", "", true},
		{"Missing JWT secret", "development", "", "password", "8000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Env:        tt.env,
				JWTSecret:  tt.jwtSecret,
				DBPassword: tt.dbPassword,
				Port:       tt.port,
				DBSSLMode:  "require",
			}

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("PORT")
	defer viper.Reset()

	os.Setenv("APP_ENV", "development")
	os.Setenv("PORT", "9123")

	c, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "9123", c.Port)
	assert.Equal(t, "development", c.Env)
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer viper.Reset()

	os.Setenv("APP_ENV", "test")

	c, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "8000", c.Port)
	assert.Equal(t, "5432", c.DBPort)
	assert.Equal(t, "disable", c.DBSSLMode)
}
