package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1|max:65535"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type SchedulerConfig struct {
	DefaultBreakInterval time.Duration `yaml:"defaultBreakInterval"`
	StoreTimeout         time.Duration `yaml:"storeTimeout"`
	BadgeInterval        time.Duration `yaml:"badgeInterval"`
}

type TabsConfig struct {
	DispatchTimeout time.Duration `yaml:"dispatchTimeout"`
	MaxMessageBytes int64         `yaml:"maxMessageBytes"`
}

// SettingsConfig bounds user-entered values at the settings-write boundary.
type SettingsConfig struct {
	MinInterval time.Duration `yaml:"minInterval"`
	MaxInterval time.Duration `yaml:"maxInterval"`
}

type StorageConfig struct {
	QuotaBytes        int `yaml:"quotaBytes"`
	QuotaBytesPerItem int `yaml:"quotaBytesPerItem"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server          `yaml:"webServer"`
	Persistence Persistence     `yaml:"persistence"`
	Logger      LoggerConfig    `yaml:"logger"`
	Scheduler   SchedulerConfig `yaml:"scheduler"`
	Tabs        TabsConfig      `yaml:"tabs"`
	Settings    SettingsConfig  `yaml:"settings"`
	Storage     StorageConfig   `yaml:"storage"`
	Cache       CacheConfig     `yaml:"cache"`
	Metrics     MetricsConfig   `yaml:"metrics"`
}

const (
	DefaultBreakInterval     = 5 * time.Minute
	DefaultStoreTimeout      = 3 * time.Second
	DefaultBadgeInterval     = 30 * time.Second
	DefaultDispatchTimeout   = 2 * time.Second
	DefaultMaxMessageBytes   = 64 << 10
	DefaultMinInterval       = time.Second
	DefaultMaxInterval       = 120 * time.Minute
	DefaultQuotaBytes        = 102400
	DefaultQuotaBytesPerItem = 8192
	DefaultCacheTTL          = time.Minute
)

// ApplyDefaults fills optional sections left empty in the config file.
func (c *Config) ApplyDefaults() {
	if c.Scheduler.DefaultBreakInterval <= 0 {
		c.Scheduler.DefaultBreakInterval = DefaultBreakInterval
	}
	if c.Scheduler.StoreTimeout <= 0 {
		c.Scheduler.StoreTimeout = DefaultStoreTimeout
	}
	if c.Scheduler.BadgeInterval <= 0 {
		c.Scheduler.BadgeInterval = DefaultBadgeInterval
	}
	if c.Tabs.DispatchTimeout <= 0 {
		c.Tabs.DispatchTimeout = DefaultDispatchTimeout
	}
	if c.Tabs.MaxMessageBytes <= 0 {
		c.Tabs.MaxMessageBytes = DefaultMaxMessageBytes
	}
	if c.Settings.MinInterval <= 0 {
		c.Settings.MinInterval = DefaultMinInterval
	}
	if c.Settings.MaxInterval <= 0 {
		c.Settings.MaxInterval = DefaultMaxInterval
	}
	if c.Storage.QuotaBytes <= 0 {
		c.Storage.QuotaBytes = DefaultQuotaBytes
	}
	if c.Storage.QuotaBytesPerItem <= 0 {
		c.Storage.QuotaBytesPerItem = DefaultQuotaBytesPerItem
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
}
