package providers

import (
	"fmt"

	"breakd/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate checks struct tags first, then the cross-field rules tags cannot express.
func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %w", v.Errors)
	}

	s := cv.conf.Settings
	if s.MinInterval > 0 && s.MaxInterval > 0 && s.MinInterval > s.MaxInterval {
		return fmt.Errorf("invalid config: settings.minInterval %s exceeds settings.maxInterval %s", s.MinInterval, s.MaxInterval)
	}
	if cv.conf.Cache.Enabled && cv.conf.Cache.Size < 0 {
		return fmt.Errorf("invalid config: cache.size must not be negative")
	}
	return nil
}
