// Package environment defines the application environment names used for
// logger and service configuration.
package environment

// Environment represents application environment.
type Environment string

const (
	// Development for development environment.
	Development Environment = "development"
	// Production for production environment.
	Production Environment = "production"
	// Staging for staging environment.
	Staging Environment = "staging"
)

// IsProduction reports whether env names the production environment.
func IsProduction(env string) bool {
	return env == string(Production) || env == "prod"
}

// IsDevelopment reports whether env names the development environment.
func IsDevelopment(env string) bool {
	return env == string(Development) || env == "dev"
}
