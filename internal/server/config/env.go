package config

import "github.com/ilyakaznacheev/cleanenv"

// parseEnv overlays NEWSLETTER_* variables onto config. Unset variables leave
// the current value in place. A malformed value panics, like the other
// loaders.
func parseEnv(config *Config) {
	if err := cleanenv.ReadEnv(config); err != nil {
		panic(err)
	}
}
