package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	BotToken    string `env:"BOT_TOKEN,required"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Ollama
	OllamaURL   string `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	OllamaModel string `env:"OLLAMA_MODEL" envDefault:"gemma2:9b"`

	// Salon local time zone, used for working hours and the system prompt clock.
	Timezone string `env:"SALON_TIMEZONE" envDefault:"Europe/Moscow"`

	// Salon card
	SalonName  string `env:"SALON_NAME" envDefault:"Beauteq"`
	SalonPhone string `env:"SALON_PHONE" envDefault:"+7 (999) 123-45-67"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
