package privacy

import (
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/sharewatch/sharewatch/internal/config"
	"github.com/sharewatch/sharewatch/internal/logger"
	"go.uber.org/zap"
)

// Scanner applies the detection rule set over free text
type Scanner struct {
	rules   []DetectionRule
	enabled map[string]bool
	logger  *logger.Logger
	config  config.ScannerConfig
	mu      sync.RWMutex
}

// New creates a new scanner instance
func New(cfg config.ScannerConfig, log *logger.Logger) (*Scanner, error) {
	scanner := &Scanner{
		rules:   GetDefaultRules(),
		enabled: make(map[string]bool),
		logger:  log,
		config:  cfg,
	}

	// Configure enabled detectors
	if err := scanner.configureDetectors(cfg.Detectors); err != nil {
		return nil, fmt.Errorf("failed to configure detectors: %w", err)
	}

	log.Info("Privacy scanner initialized",
		zap.Int("total_rules", len(scanner.rules)),
		zap.Int("enabled_rules", scanner.countEnabledRules()),
	)

	return scanner, nil
}

// configureDetectors enables/disables detectors based on configuration
func (s *Scanner) configureDetectors(detectors []string) error {
	// Disable all rules by default
	for _, rule := range s.rules {
		s.enabled[rule.Name] = false
	}

	// Enable specified detectors
	for _, detector := range detectors {
		if detector == "all" {
			// Enable all detectors
			for _, rule := range s.rules {
				s.enabled[rule.Name] = true
			}
			continue
		}

		// Enable specific detector
		found := false
		for _, rule := range s.rules {
			if rule.Name == detector {
				s.enabled[rule.Name] = true
				found = true
				break
			}
		}

		if !found {
			return fmt.Errorf("unknown detector: %s", detector)
		}
	}

	return nil
}

// Scan finds every occurrence of every enabled rule in text and returns
// the matches sorted by ascending start offset. The sort is stable, so
// matches sharing a start offset keep rule declaration order. Matches
// from different rules may overlap; all of them are reported. Offsets
// are rune offsets and Value is always the exact slice text[start:end]
// in that index space.
func (s *Scanner) Scan(text string) []Match {
	matches := make([]Match, 0)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if text == "" || !s.config.Enabled {
		return matches
	}

	for _, rule := range s.rules {
		if !s.enabled[rule.Name] {
			continue
		}

		for _, loc := range rule.Pattern.FindAllStringSubmatchIndex(text, -1) {
			sb, eb := loc[0], loc[1]
			if rule.Group > 0 {
				sb, eb = loc[2*rule.Group], loc[2*rule.Group+1]
			}
			if sb < 0 || sb >= eb {
				continue
			}

			start := utf8.RuneCountInString(text[:sb])
			value := text[sb:eb]
			matches = append(matches, Match{
				Type:     rule.Name,
				Value:    value,
				Start:    start,
				End:      start + utf8.RuneCountInString(value),
				Severity: rule.Severity,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})

	return matches
}

// Reconfigure replaces the enabled detector set, e.g. on config reload
func (s *Scanner) Reconfigure(cfg config.ScannerConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.enabled
	s.enabled = make(map[string]bool)
	if err := s.configureDetectors(cfg.Detectors); err != nil {
		s.enabled = previous
		return err
	}
	s.config = cfg

	s.logger.Info("Scanner reconfigured",
		zap.Bool("enabled", cfg.Enabled),
		zap.Int("enabled_rules", s.countEnabledRules()),
	)
	return nil
}

// Enabled reports whether scanning is enabled at all
func (s *Scanner) Enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Enabled
}

// countEnabledRules returns the number of enabled detection rules
func (s *Scanner) countEnabledRules() int {
	count := 0
	for _, enabled := range s.enabled {
		if enabled {
			count++
		}
	}
	return count
}

// EnabledRules returns a list of enabled rule names in declaration order
func (s *Scanner) EnabledRules() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	enabled := make([]string, 0, len(s.rules))
	for _, rule := range s.rules {
		if s.enabled[rule.Name] {
			enabled = append(enabled, rule.Name)
		}
	}
	return enabled
}

// EnableRule enables a specific detection rule
func (s *Scanner) EnableRule(ruleName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rule := range s.rules {
		if rule.Name == ruleName {
			s.enabled[ruleName] = true
			s.logger.Info("Detection rule enabled", zap.String("rule", ruleName))
			return nil
		}
	}
	return fmt.Errorf("unknown rule: %s", ruleName)
}

// DisableRule disables a specific detection rule
func (s *Scanner) DisableRule(ruleName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.enabled[ruleName]; !exists {
		return fmt.Errorf("unknown rule: %s", ruleName)
	}

	s.enabled[ruleName] = false
	s.logger.Info("Detection rule disabled", zap.String("rule", ruleName))
	return nil
}
