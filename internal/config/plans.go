package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PlanLimits describes the allowances a subscription plan grants.
type PlanLimits struct {
	Plan          string `mapstructure:"plan"`
	Seats         int    `mapstructure:"seats"`
	ProjectsLimit int    `mapstructure:"projectsLimit"`
}

type PlansConfig struct {
	Default PlanLimits   `mapstructure:"default"`
	Plans   []PlanLimits `mapstructure:"plans"`
}

func DefaultPlansConfig() PlansConfig {
	return PlansConfig{
		Default: PlanLimits{Plan: "free", Seats: 10, ProjectsLimit: 10},
		Plans: []PlanLimits{
			{Plan: "free", Seats: 10, ProjectsLimit: 10},
			{Plan: "team", Seats: 25, ProjectsLimit: 50},
			{Plan: "business", Seats: 100, ProjectsLimit: 200},
		},
	}
}

// PlansHolder keeps the current plan limits and hot-reloads them from plans.yml.
type PlansHolder struct {
	current atomic.Value // holds PlansConfig
}

func NewPlansHolder() (*PlansHolder, error) {
	v := viper.New()

	v.SetConfigName("plans")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/fieldops/config")
	v.AddConfigPath("/etc/fieldops")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FIELDOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultPlansConfig()
		v.SetDefault("billing.default", defaults.Default)
		v.SetDefault("billing.plans", defaults.Plans)
	}

	var cfg PlansConfig
	if err := v.UnmarshalKey("billing", &cfg); err != nil {
		return nil, err
	}
	if cfg.Default.Seats == 0 {
		cfg = DefaultPlansConfig()
	}
	if err := validatePlansConfig(cfg); err != nil {
		return nil, err
	}

	holder := &PlansHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PlansConfig
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			log.Printf("[plans-config] reload failed: %v", err)
			return
		}
		if err := validatePlansConfig(updated); err != nil {
			log.Printf("[plans-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[plans-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *PlansHolder) Get() PlansConfig {
	return h.current.Load().(PlansConfig)
}

// LimitsFor resolves limits for a plan name, falling back to the default plan.
func (h *PlansHolder) LimitsFor(plan string) PlanLimits {
	cfg := h.Get()
	name := strings.ToLower(strings.TrimSpace(plan))
	for _, p := range cfg.Plans {
		if p.Plan == name {
			return p
		}
	}
	return cfg.Default
}

func validatePlansConfig(cfg PlansConfig) error {
	if cfg.Default.Seats <= 0 {
		return errors.New("billing.default.seats must be positive")
	}
	if cfg.Default.ProjectsLimit <= 0 {
		return errors.New("billing.default.projectsLimit must be positive")
	}
	for _, p := range cfg.Plans {
		if strings.TrimSpace(p.Plan) == "" {
			return errors.New("billing.plans entries need a plan name")
		}
		if p.Seats <= 0 || p.ProjectsLimit <= 0 {
			return errors.New("billing.plans limits must be positive")
		}
	}
	return nil
}
