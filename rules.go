package matchex

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rule is the serializable form of a match rule: a key and its alternative
// patterns, as loaded from a rule file.
type Rule struct {
	Key      string    `yaml:"key" json:"key"`
	Patterns []Pattern `yaml:"patterns" json:"patterns"`
}

type rulesConfig struct {
	Rules []Rule `yaml:"rules" json:"rules"`
}

// LoadRules reads match rules from a YAML file.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg rulesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse rule file %s: %w", path, err)
	}
	return cfg.Rules, nil
}

// AddRules registers every loaded rule, with no callback.
func (m *Matcher) AddRules(rules []Rule) error {
	for _, r := range rules {
		if err := m.Add(r.Key, r.Patterns, nil); err != nil {
			return err
		}
	}
	return nil
}
