package config

import "time"

// Default configuration values
const (
	DefaultPort        = "8080"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultServiceName = "depthforge"
	DefaultVersion     = "dev"
	DefaultEnvironment = "dev"

	DefaultDBUser     = "postgres"
	DefaultDBPassword = "postgres"
	DefaultDBHost     = "localhost"
	DefaultDBPort     = "5432"
	DefaultDBName     = "depthforge"

	DefaultItemsConfigPath   = "configs/items.json"
	DefaultRecipesConfigPath = "configs/recipes.json"
)

// Default scheduler intervals
const (
	DefaultShopTickInterval = 5 * time.Second
	DefaultAutosaveInterval = time.Minute
)
