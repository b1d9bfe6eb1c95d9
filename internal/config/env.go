package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config contains all configuration parameters for the application.
// The crypto core itself reads no environment; these belong to the HTTP
// service wrapped around it.
type Config struct {
	Port              string `envconfig:"PORT" default:"8080"`
	PayLinkBaseURL    string `envconfig:"PAYLINK_BASE_URL" default:"https://privacymoney.app/pay"`
	WalletKeypairPath string `envconfig:"WALLET_KEYPAIR_PATH"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	cfg = &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetPayLinkBaseURL returns the base URL pay links are built on
func GetPayLinkBaseURL() string {
	return Get().PayLinkBaseURL
}

// GetWalletKeypairPath returns the optional server-side keypair path.
// Empty means key derivation happens only through the API.
func GetWalletKeypairPath() string {
	return Get().WalletKeypairPath
}
