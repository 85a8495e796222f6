package config

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "PARTSPORTAL_DB_DSN"
	EnvDBHost = "PARTSPORTAL_DB_HOST"
	EnvDBUser = "PARTSPORTAL_DB_USER"
	EnvDBName = "PARTSPORTAL_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
