package config

import (
	"fmt"
	"os"
	"time"

	"iv-drip-calculator/internal/domain/formulary"

	"gopkg.in/yaml.v3"
)

// Defaults aplicados cuando el archivo no define el campo.
const (
	DefaultAddr         = ":8080"
	DefaultReadTimeout  = 5 * time.Second
	DefaultWriteTimeout = 10 * time.Second
)

// Config es la configuración del servicio. El formulario puede
// sobreescribirse por archivo; vacío = los tres vasoactivos de fábrica.
type Config struct {
	Server    ServerConfig `yaml:"server"`
	Formulary []DrugConfig `yaml:"formulary"`
}

type ServerConfig struct {
	// Addr del listener HTTP (":8080"). PORT del entorno pisa esto.
	Addr string `yaml:"addr"`

	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DrugConfig replica DrugProfile en forma yaml.
type DrugConfig struct {
	ID               string    `yaml:"id"`
	Name             string    `yaml:"name"`
	MassOptionsMg    []float64 `yaml:"mass_options_mg"`
	DiluentOptionsMl []float64 `yaml:"diluent_options_ml"`
	DoseMin          float64   `yaml:"dose_min"`
	DoseMax          float64   `yaml:"dose_max"`
	DoseStep         float64   `yaml:"dose_step"`
}

// Default devuelve la configuración de fábrica.
func Default() *Config {
	return applyDefaults(&Config{})
}

// Load lee y valida el archivo yaml. path vacío => Default().
// Un formulario inválido es error de carga, no fallback silencioso.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if _, err := cfg.Profiles(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	return &cfg, nil
}

// Profiles convierte el formulario configurado a perfiles de dominio
// validados. Lista vacía => DefaultProfiles.
func (c *Config) Profiles() ([]formulary.DrugProfile, error) {
	if len(c.Formulary) == 0 {
		return formulary.DefaultProfiles(), nil
	}

	seen := map[formulary.DrugID]bool{}
	out := make([]formulary.DrugProfile, 0, len(c.Formulary))

	for _, d := range c.Formulary {
		p := formulary.DrugProfile{
			ID:               formulary.DrugID(d.ID),
			Name:             d.Name,
			MassOptionsMg:    d.MassOptionsMg,
			DiluentOptionsMl: d.DiluentOptionsMl,
			DoseMin:          d.DoseMin,
			DoseMax:          d.DoseMax,
			DoseStep:         d.DoseStep,
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate drug profile %s", p.ID)
		}
		seen[p.ID] = true
		out = append(out, p)
	}

	return out, nil
}

func applyDefaults(cfg *Config) *Config {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	return cfg
}
