package config

import (
	"errors"
	"fmt"
)

// Validate reports every required setting that is missing.
func (c Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, missing("DATABASE_URL"))
	}
	if len(c.JWTSecret) == 0 {
		errs = append(errs, missing("JWT_SECRET"))
	}
	if c.AuthRateLimit <= 0 {
		errs = append(errs, fmt.Errorf("AUTH_RATE_LIMIT must be positive, got %d", c.AuthRateLimit))
	}
	if c.ESURL != "" && c.ESIndex == "" {
		errs = append(errs, missing("ES_INDEX"))
	}
	return errors.Join(errs...)
}

func missing(env string) error {
	return fmt.Errorf("missing required env %s", env)
}
