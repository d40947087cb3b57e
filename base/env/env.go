package env

import (
	"os"
)

// PodName example: k8s-auction-api-6868d88fbd-bz8zv
func PodName() string {
	return os.Getenv("PODNAME")
}

// EnvName example: staging
func EnvName() string {
	return os.Getenv("ENV_NAME")
}

// AppName example: settler
func AppName() string {
	return os.Getenv("APP_NAME")
}

// ConfigPath overrides the default config file location
func ConfigPath() string {
	return os.Getenv("AUCTION_CONFIG")
}
