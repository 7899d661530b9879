package config

import "fmt"

func validate(cfg *Config) error {
	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	if cfg.RenderTimeout <= 0 {
		return fmt.Errorf("render timeout must be positive")
	}
	if cfg.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit rps must be positive")
	}
	if cfg.BlockedMinBytes < 0 {
		return fmt.Errorf("blocked threshold must not be negative")
	}
	if cfg.ScrollSteps < 0 || cfg.ScrollDeltaPx < 0 {
		return fmt.Errorf("scroll settings must not be negative")
	}
	if cfg.Gomag.ErrorRowLimit <= 0 {
		return fmt.Errorf("error row limit must be positive")
	}
	return nil
}
