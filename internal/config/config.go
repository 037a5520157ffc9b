package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/limaJavier/evotimetabling/pkg/genetic"
	"github.com/limaJavier/evotimetabling/pkg/model"
)

type Config struct {
	Genetic  genetic.Parameters `mapstructure:"genetic"`
	Calendar CalendarConfig     `mapstructure:"calendar"`
	Log      LogConfig          `mapstructure:"log"`
}

// CalendarConfig describes the teaching week in a human-friendly form
type CalendarConfig struct {
	Days            []string      `mapstructure:"days"`
	Open            string        `mapstructure:"open"`  // HH:MM
	Close           string        `mapstructure:"close"` // HH:MM
	Breaks          []BreakConfig `mapstructure:"breaks"`
	LectureDuration time.Duration `mapstructure:"lecture_duration"`
	LabDuration     time.Duration `mapstructure:"lab_duration"`
}

type BreakConfig struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

var weekdays = lo.SliceToMap(lo.Range(7), func(day int) (string, time.Weekday) {
	return strings.ToLower(time.Weekday(day).String()), time.Weekday(day)
})

// Load reads the configuration with precedence environment > file > defaults. An empty path looks for
// config.yaml in ./config and the working directory, a missing file is not an error
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("EVOTT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	params := genetic.DefaultParameters()
	v.SetDefault("genetic.population_size", params.PopulationSize)
	v.SetDefault("genetic.generations", params.Generations)
	v.SetDefault("genetic.mutation_rate", params.MutationRate)
	v.SetDefault("genetic.crossover_rate", params.CrossoverRate)
	v.SetDefault("genetic.elite_count", params.EliteCount)
	v.SetDefault("genetic.tournament_size", params.TournamentSize)
	v.SetDefault("genetic.stagnation_threshold", params.StagnationThreshold)
	v.SetDefault("genetic.selection", params.Selection)
	v.SetDefault("genetic.workers", params.Workers)
	v.SetDefault("genetic.max_attempts", params.MaxAttempts)
	v.SetDefault("genetic.seed", params.Seed)
	v.SetDefault("genetic.repair_rooms", params.RepairRooms)

	v.SetDefault("calendar.days", []string{"monday", "tuesday", "wednesday", "thursday", "friday"})
	v.SetDefault("calendar.open", "08:30")
	v.SetDefault("calendar.close", "16:45")
	v.SetDefault("calendar.breaks", []map[string]string{
		{"start": "10:30", "end": "10:45"},
		{"start": "12:45", "end": "13:30"},
		{"start": "15:30", "end": "15:45"},
	})
	v.SetDefault("calendar.lecture_duration", "1h")
	v.SetDefault("calendar.lab_duration", "2h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

func (cfg *Config) Validate() error {
	if err := cfg.Genetic.Validate(); err != nil {
		return fmt.Errorf("invalid genetic parameters: %w", err)
	}
	if _, err := cfg.Calendar.CatalogOptions(); err != nil {
		return fmt.Errorf("invalid calendar: %w", err)
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "console" {
		return fmt.Errorf("invalid log format %q: allowed values are json and console", cfg.Log.Format)
	}
	return nil
}

// CatalogOptions converts the calendar into time-slot catalog options
func (calendar CalendarConfig) CatalogOptions() (model.CatalogOptions, error) {
	days := make([]time.Weekday, 0, len(calendar.Days))
	for _, name := range calendar.Days {
		day, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return model.CatalogOptions{}, fmt.Errorf("%q is not a weekday", name)
		}
		days = append(days, day)
	}

	open, err := model.ParseClock(calendar.Open)
	if err != nil {
		return model.CatalogOptions{}, fmt.Errorf("invalid opening time: %w", err)
	}
	closing, err := model.ParseClock(calendar.Close)
	if err != nil {
		return model.CatalogOptions{}, fmt.Errorf("invalid closing time: %w", err)
	}

	breaks := make([]model.Window, 0, len(calendar.Breaks))
	for _, window := range calendar.Breaks {
		start, err := model.ParseClock(window.Start)
		if err != nil {
			return model.CatalogOptions{}, fmt.Errorf("invalid break start: %w", err)
		}
		end, err := model.ParseClock(window.End)
		if err != nil {
			return model.CatalogOptions{}, fmt.Errorf("invalid break end: %w", err)
		}
		breaks = append(breaks, model.Window{Start: start, End: end})
	}

	return model.CatalogOptions{
		Days:            days,
		Open:            open,
		Close:           closing,
		Breaks:          breaks,
		LectureDuration: calendar.LectureDuration,
		LabDuration:     calendar.LabDuration,
	}, nil
}
