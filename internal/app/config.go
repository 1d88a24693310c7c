package app

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/9304065865a/podolog/core/config"
	coredatabase "github.com/9304065865a/podolog/core/database"
	"github.com/9304065865a/podolog/internal/models"
	"github.com/9304065865a/podolog/internal/schedule"
)

// ScheduleConfig defines the working-day grid used to generate bookable
// slots. Times are "HH:MM" strings in the practitioner's local day.
type ScheduleConfig struct {
	WorkStart   string `yaml:"work_start" envconfig:"SCHEDULE_WORK_START"`
	WorkEnd     string `yaml:"work_end" envconfig:"SCHEDULE_WORK_END"`
	LunchStart  string `yaml:"lunch_start" envconfig:"SCHEDULE_LUNCH_START"`
	LunchEnd    string `yaml:"lunch_end" envconfig:"SCHEDULE_LUNCH_END"`
	SlotMinutes int    `yaml:"appointment_duration_minutes" envconfig:"SCHEDULE_SLOT_MINUTES"`
	DaysAhead   int    `yaml:"days_ahead" envconfig:"SCHEDULE_DAYS_AHEAD"`
}

// PhotosConfig locates the directory where client photos are stored.
type PhotosConfig struct {
	Dir string `yaml:"dir" envconfig:"PHOTOS_DIR"`
}

// Config aggregates core bot settings with the booking-specific ones.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Schedule ScheduleConfig      `yaml:"schedule"`
	Photos   PhotosConfig        `yaml:"photos"`

	scheduleOpts schedule.Options
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config { return &c.Core }

// ScheduleOptions returns the validated slot grid; only meaningful on a
// Config produced by Load.
func (c *Config) ScheduleOptions() schedule.Options { return c.scheduleOpts }

// LoadConfig reads YAML, applies environment overrides, and validates both
// the core and the booking sections.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Schedule: ScheduleConfig{
			WorkStart:   "09:00",
			WorkEnd:     "19:00",
			LunchStart:  "13:00",
			LunchEnd:    "14:00",
			SlotMinutes: 30,
			DaysAhead:   10,
		},
		Photos: PhotosConfig{Dir: "photos"},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	opts, err := cfg.Schedule.build()
	if err != nil {
		return nil, err
	}
	cfg.scheduleOpts = opts

	if cfg.Photos.Dir == "" {
		return nil, fmt.Errorf("photos.dir is required")
	}
	return cfg, nil
}

func (s ScheduleConfig) build() (schedule.Options, error) {
	var opts schedule.Options
	var err error

	if opts.WorkStart, err = models.ParseTimeOfDay(s.WorkStart); err != nil {
		return opts, fmt.Errorf("schedule.work_start: %w", err)
	}
	if opts.WorkEnd, err = models.ParseTimeOfDay(s.WorkEnd); err != nil {
		return opts, fmt.Errorf("schedule.work_end: %w", err)
	}
	if opts.LunchStart, err = models.ParseTimeOfDay(s.LunchStart); err != nil {
		return opts, fmt.Errorf("schedule.lunch_start: %w", err)
	}
	if opts.LunchEnd, err = models.ParseTimeOfDay(s.LunchEnd); err != nil {
		return opts, fmt.Errorf("schedule.lunch_end: %w", err)
	}

	if opts.WorkStart >= opts.WorkEnd {
		return opts, fmt.Errorf("schedule: work_start must precede work_end")
	}
	if opts.LunchStart > opts.LunchEnd {
		return opts, fmt.Errorf("schedule: lunch_start must not exceed lunch_end")
	}
	if opts.LunchStart < opts.WorkStart || opts.LunchEnd > opts.WorkEnd {
		return opts, fmt.Errorf("schedule: lunch must fall within working hours")
	}

	if s.SlotMinutes <= 0 {
		return opts, fmt.Errorf("schedule: appointment_duration_minutes must be positive")
	}
	opts.SlotLen = s.SlotMinutes

	if s.DaysAhead < 1 {
		return opts, fmt.Errorf("schedule: days_ahead must be at least 1")
	}
	opts.DaysAhead = s.DaysAhead

	return opts, nil
}
