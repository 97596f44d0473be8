package categorizer

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/vijay-prabhu/searchlens/internal/category"
	"github.com/vijay-prabhu/searchlens/internal/querycontext"
)

// Thresholds holds the per-pass affinity thresholds
type Thresholds struct {
	FirstPass     float64 `toml:"first_pass" json:"first_pass"`
	SecondPass    float64 `toml:"second_pass" json:"second_pass"`
	FallbackScore float64 `toml:"fallback_score" json:"fallback_score"`
	Match         float64 `toml:"match" json:"match"`
}

// Settings configures a Categorizer. Every weight and threshold the state
// machine reads lives here.
type Settings struct {
	Thresholds      Thresholds
	MaxCategories   int
	Workers         int
	IncludeCatchAll bool
	Profiles        querycontext.Profiles
}

// DefaultThresholds returns the standard two-pass thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		FirstPass:     0.70,
		SecondPass:    0.65,
		FallbackScore: 0.60,
		Match:         category.DefaultThreshold,
	}
}

// DefaultSettings returns the settings used when none are configured
func DefaultSettings() Settings {
	return Settings{
		Thresholds:    DefaultThresholds(),
		MaxCategories: 6,
		Workers:       runtime.NumCPU(),
		Profiles:      querycontext.DefaultProfiles(),
	}
}

// Validate checks the settings are usable
func (s Settings) Validate() error {
	var errs []error
	t := s.Thresholds

	for _, th := range []struct {
		name  string
		value float64
	}{
		{"first_pass", t.FirstPass},
		{"second_pass", t.SecondPass},
		{"fallback_score", t.FallbackScore},
		{"match", t.Match},
	} {
		if th.value < 0 || th.value > 1 {
			errs = append(errs, fmt.Errorf("threshold %s must be between 0 and 1, got %.2f", th.name, th.value))
		}
	}
	if t.SecondPass > t.FirstPass {
		errs = append(errs, fmt.Errorf("second_pass (%.2f) must not exceed first_pass (%.2f)", t.SecondPass, t.FirstPass))
	}
	if s.MaxCategories < 1 {
		errs = append(errs, errors.New("max_categories must be at least 1"))
	}
	if s.Workers < 0 {
		errs = append(errs, errors.New("workers must not be negative"))
	}
	if err := s.Profiles.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("weights: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
