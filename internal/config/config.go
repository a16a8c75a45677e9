package config

import (
	"errors"
	"os"
)

// Environment base URLs for the aggregator. Operators configure the
// environment name; the URL is derived so a bad value fails at startup
// instead of at the first upstream call.
const (
	plaidSandboxURL     = "https://sandbox.plaid.com"
	plaidDevelopmentURL = "https://development.plaid.com"
	plaidProductionURL  = "https://production.plaid.com"
)

type Config struct {
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	PlaidClientID    string
	PlaidSecret      string
	PlaidEnvironment string
	PlaidBaseURL     string

	ServerPort string
}

func ProcessEnvironmentVariables() (*Config, error) {
	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",
		PlaidEnvironment: "sandbox",
		ServerPort:       "9446",
	}

	envPostgresAddress := os.Getenv("POSTGRES_ADDRESS")
	envPostgresPort := os.Getenv("POSTGRES_PORT")
	envPostgresDB := os.Getenv("POSTGRES_DB")
	envPostgresUsername := os.Getenv("POSTGRES_USERNAME")
	envPostgresPassword := os.Getenv("POSTGRES_PASSWORD")
	envPlaidClientID := os.Getenv("PLAID_CLIENT_ID")
	envPlaidSecret := os.Getenv("PLAID_SECRET")
	envPlaidEnvironment := os.Getenv("PLAID_ENVIRONMENT")
	envServerPort := os.Getenv("SERVER_PORT")

	if len(envPostgresAddress) != 0 {
		env.PostgresAddress = envPostgresAddress
	}

	if len(envPostgresPort) != 0 {
		env.PostgresPort = envPostgresPort
	}

	if len(envPostgresDB) != 0 {
		env.PostgresDB = envPostgresDB
	}

	if len(envPostgresUsername) != 0 {
		env.PostgresUsername = envPostgresUsername
	}

	if len(envPostgresPassword) != 0 {
		env.PostgresPassword = envPostgresPassword
	}

	if len(envPlaidClientID) != 0 {
		env.PlaidClientID = envPlaidClientID
	}

	if len(envPlaidSecret) != 0 {
		env.PlaidSecret = envPlaidSecret
	}

	if len(envPlaidEnvironment) != 0 {
		env.PlaidEnvironment = envPlaidEnvironment
	}

	if len(envServerPort) != 0 {
		env.ServerPort = envServerPort
	}

	switch env.PlaidEnvironment {
	case "sandbox":
		env.PlaidBaseURL = plaidSandboxURL
	case "development":
		env.PlaidBaseURL = plaidDevelopmentURL
	case "production":
		env.PlaidBaseURL = plaidProductionURL
	default:
		return nil, errors.New("config: unknown PLAID_ENVIRONMENT " + env.PlaidEnvironment)
	}

	return &env, nil
}
