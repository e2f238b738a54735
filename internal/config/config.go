package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"CrazyCarl/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Site struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		Ticker      string `yaml:"ticker"`
	} `yaml:"site"`
	Simulation struct {
		Interval      time.Duration `yaml:"interval"`
		MeterInterval time.Duration `yaml:"meter_interval"`
		Window        int           `yaml:"window"`
		Tolerance     float64       `yaml:"tolerance"`
		PriceFloor    float64       `yaml:"price_floor"`
		Seed          int64         `yaml:"seed"`
		Supply        float64       `yaml:"supply"`
	} `yaml:"simulation"`
	Milestones []model.Milestone `yaml:"milestones"`
	Phrases    struct {
		Pump []string `yaml:"pump"`
		Dump []string `yaml:"dump"`
	} `yaml:"phrases"`
	Links    []model.SocialLink `yaml:"links"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// DefaultMilestones is the scripted road to a billion market cap.
var DefaultMilestones = []model.Milestone{
	{TargetPrice: 0.0003, Message: "We just getting started fam! 😤"},
	{TargetPrice: 0.0012, Message: "Ayy we pumping! 📈"},
	{TargetPrice: 0.0006, Message: "Paper hands getting shaken 🤣"},
	{TargetPrice: 0.0005, Message: "Weak hands gone, real ones know 💎"},
	{TargetPrice: 0.02, Message: "HOLY SHIT WE MOONING! 🚀"},
	{TargetPrice: 0.5, Message: "BROOO 500M MC! WE EATING GOOD! 🍽️"},
	{TargetPrice: 1.0, Message: "1 BILLI MC! IMAGINE NOT APING IN! 🦍"},
}

var (
	DefaultPumpPhrases = []string{
		"1000x INCOMING! 🚀",
		"BEARS IN SHAMBLES! 📈",
		"PAPERHANDS NGMI! 🤡",
		"PUMP OR DIE! 🔥",
		"WE ALL GONNA MAKE IT! 💰",
	}
	DefaultDumpPhrases = []string{
		"THANKS FOR THE LIQUIDITY! 😂",
		"DISCOUNT OF A LIFETIME! 💎",
		"FILLING MY BAGS RN! 🎯",
		"SHAKING OUT PAPER HANDS! 🧻",
		"LAST CHANCE THIS CHEAP! 🔥",
	}
)

// DefaultLinks are the footer social links.
var DefaultLinks = []model.SocialLink{
	{Title: "Twitter", Href: "https://x.com/CrazyCarltoken"},
	{Title: "Telegram", Href: "https://t.me/+o4XlacsvDoQwMzY0"},
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error; compiled-in defaults fill every gap.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	// Environment variable overrides
	if v := os.Getenv("CARL_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("CARL_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse CARL_SEED: %w", err)
		}
		cfg.Simulation.Seed = seed
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Site.Title == "" {
		c.Site.Title = "Crazy Carl Coin ($CARL) - The Wildest Meme in Crypto"
	}
	if c.Site.Description == "" {
		c.Site.Description = "From 9-to-5 wage slave to crypto legend, Carl is the face of pure meme energy! Why so serious when we can meme to the moon? 🚀"
	}
	if c.Site.Ticker == "" {
		c.Site.Ticker = "$CARL"
	}
	if c.Simulation.Interval == 0 {
		c.Simulation.Interval = 2 * time.Second
	}
	if c.Simulation.MeterInterval == 0 {
		c.Simulation.MeterInterval = 1500 * time.Millisecond
	}
	if c.Simulation.Window == 0 {
		c.Simulation.Window = 20
	}
	if c.Simulation.Tolerance == 0 {
		c.Simulation.Tolerance = 0.1
	}
	if c.Simulation.PriceFloor == 0 {
		c.Simulation.PriceFloor = 1e-12
	}
	if c.Simulation.Supply == 0 {
		c.Simulation.Supply = 1_000_000_000
	}
	if len(c.Milestones) == 0 {
		c.Milestones = append([]model.Milestone(nil), DefaultMilestones...)
	}
	if len(c.Phrases.Pump) == 0 {
		c.Phrases.Pump = append([]string(nil), DefaultPumpPhrases...)
	}
	if len(c.Phrases.Dump) == 0 {
		c.Phrases.Dump = append([]string(nil), DefaultDumpPhrases...)
	}
	if len(c.Links) == 0 {
		c.Links = append([]model.SocialLink(nil), DefaultLinks...)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that the simulation can run with these values.
func (c *Config) Validate() error {
	if c.Simulation.Interval < time.Second {
		return fmt.Errorf("simulation.interval must be at least 1s, got %s", c.Simulation.Interval)
	}
	if c.Simulation.MeterInterval < time.Second {
		return fmt.Errorf("simulation.meter_interval must be at least 1s, got %s", c.Simulation.MeterInterval)
	}
	if c.Simulation.Window < 2 {
		return fmt.Errorf("simulation.window must be at least 2")
	}
	if c.Simulation.Tolerance <= 0 || c.Simulation.Tolerance >= 1 {
		return fmt.Errorf("simulation.tolerance must be in (0, 1)")
	}
	if c.Simulation.PriceFloor <= 0 {
		return fmt.Errorf("simulation.price_floor must be positive")
	}
	if c.Simulation.Supply <= 0 {
		return fmt.Errorf("simulation.supply must be positive")
	}
	for i, m := range c.Milestones {
		if m.TargetPrice <= 0 {
			return fmt.Errorf("milestones[%d].price must be positive", i)
		}
	}
	if len(c.Phrases.Pump) == 0 || len(c.Phrases.Dump) == 0 {
		return fmt.Errorf("phrases.pump and phrases.dump must not be empty")
	}
	return nil
}
