package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gookit/validate"

	"breakd/internal/models"
	"breakd/internal/providers"
	"breakd/internal/scheduler"
	"breakd/internal/structures"
)

const maxDomainPatterns = 200

// ValidationError is a user-facing rejection at the settings-write boundary.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// SettingsUpdate is a partial change; nil fields keep their stored value.
type SettingsUpdate struct {
	Enabled       *bool    `json:"enabled"`
	BreakInterval *int     `json:"breakInterval"`
	ActiveDomains []string `json:"activeDomains"`
}

type SettingsServiceInterface interface {
	Get(ctx context.Context) (models.BreakConfig, error)
	Update(ctx context.Context, upd SettingsUpdate) (models.BreakConfig, error)
	Toggle(ctx context.Context) (models.BreakConfig, error)
	AddDomain(ctx context.Context, domain string) (models.BreakConfig, error)
	RemoveDomain(ctx context.Context, domain string) (models.BreakConfig, error)
}

type SettingsService struct {
	scheduler   scheduler.SchedulerInterface
	logger      providers.Logger
	minInterval int
	maxInterval int
}

func NewSettingsService(conf *structures.Config, sched scheduler.SchedulerInterface, logger providers.Logger) SettingsServiceInterface {
	minInterval := int(conf.Settings.MinInterval / time.Second)
	if minInterval < 1 {
		minInterval = 1
	}
	maxInterval := int(conf.Settings.MaxInterval / time.Second)
	if maxInterval < minInterval {
		maxInterval = int(structures.DefaultMaxInterval / time.Second)
	}
	return &SettingsService{
		scheduler:   sched,
		logger:      logger,
		minInterval: minInterval,
		maxInterval: maxInterval,
	}
}

func (ss *SettingsService) Get(ctx context.Context) (models.BreakConfig, error) {
	return ss.scheduler.Settings(ctx)
}

func (ss *SettingsService) validate(upd SettingsUpdate) error {
	data := map[string]any{}
	if upd.BreakInterval != nil {
		data["breakInterval"] = *upd.BreakInterval
	}
	if upd.ActiveDomains != nil {
		data["activeDomains"] = upd.ActiveDomains
	}
	if len(data) == 0 {
		return nil
	}

	v := validate.Map(data)
	if upd.BreakInterval != nil {
		v.AddRule("breakInterval", "required")
		v.AddRule("breakInterval", "int")
		v.AddRule("breakInterval", "min", ss.minInterval)
		v.AddRule("breakInterval", "max", ss.maxInterval)
	}
	if upd.ActiveDomains != nil {
		v.AddRule("activeDomains", "maxLen", maxDomainPatterns)
	}
	rangeMsg := fmt.Sprintf("Break interval must be between %d and %d seconds", ss.minInterval, ss.maxInterval)
	v.AddMessages(map[string]string{
		"breakInterval.required":  rangeMsg,
		"breakInterval.min":       rangeMsg,
		"breakInterval.max":       rangeMsg,
		"activeDomains.maxLen":    fmt.Sprintf("At most %d websites can be listed", maxDomainPatterns),
		"activeDomains.maxLength": fmt.Sprintf("At most %d websites can be listed", maxDomainPatterns),
	})

	if v.Validate() {
		return nil
	}
	for _, field := range []string{"breakInterval", "activeDomains"} {
		if msg := v.Errors.FieldOne(field); msg != "" {
			return &ValidationError{Field: field, Message: msg}
		}
	}
	return &ValidationError{Message: v.Errors.One()}
}

// Update validates upd and hands it to the scheduler. Invalid input never
// reaches the stored config.
func (ss *SettingsService) Update(ctx context.Context, upd SettingsUpdate) (models.BreakConfig, error) {
	if err := ss.validate(upd); err != nil {
		return models.BreakConfig{}, err
	}

	cfg, err := ss.scheduler.UpdateSettings(ctx, func(c *models.BreakConfig) error {
		if upd.Enabled != nil {
			c.Enabled = *upd.Enabled
		}
		if upd.BreakInterval != nil {
			c.BreakIntervalSeconds = *upd.BreakInterval
		}
		if upd.ActiveDomains != nil {
			c.ActiveDomains = upd.ActiveDomains
		}
		return nil
	})
	if err != nil {
		return cfg, err
	}
	ss.logger.Infof(providers.TypeApp, "Settings saved: enabled=%t interval=%ds domains=%v", cfg.Enabled, cfg.BreakIntervalSeconds, cfg.ActiveDomains)
	return cfg, nil
}

func (ss *SettingsService) Toggle(ctx context.Context) (models.BreakConfig, error) {
	return ss.scheduler.UpdateSettings(ctx, func(c *models.BreakConfig) error {
		c.Enabled = !c.Enabled
		return nil
	})
}

func (ss *SettingsService) AddDomain(ctx context.Context, domain string) (models.BreakConfig, error) {
	return ss.scheduler.UpdateSettings(ctx, func(c *models.BreakConfig) error {
		if len(c.ActiveDomains) >= maxDomainPatterns {
			return &ValidationError{Field: "domain", Message: fmt.Sprintf("At most %d websites can be listed", maxDomainPatterns)}
		}
		next, err := models.AddDomainPattern(c.ActiveDomains, domain)
		if err != nil {
			return domainError(err)
		}
		c.ActiveDomains = next
		return nil
	})
}

func (ss *SettingsService) RemoveDomain(ctx context.Context, domain string) (models.BreakConfig, error) {
	return ss.scheduler.UpdateSettings(ctx, func(c *models.BreakConfig) error {
		c.ActiveDomains = models.RemoveDomainPattern(c.ActiveDomains, domain)
		return nil
	})
}

func domainError(err error) error {
	if errors.Is(err, models.ErrEmptyPattern) || errors.Is(err, models.ErrDuplicatePattern) {
		return &ValidationError{Field: "domain", Message: err.Error(), Err: err}
	}
	return err
}
