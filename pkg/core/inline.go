package core

import (
	"strconv"
	"strings"
)

// InlineDirectivePrefix introduces an in-file config directive, e.g.
//
//	-- sqlint:dialect:postgres
//	-- sqlint:rules:CP01:capitalisation_policy:lower
const InlineDirectivePrefix = "sqlint:"

// ProcessRawFileForConfig returns a copy of the config with any inline
// directives found in raw applied. Unknown keys are ignored.
func (c *Config) ProcessRawFileForConfig(raw string) *Config {
	cfg := c.Clone()
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "--") {
			continue
		}
		body := strings.TrimSpace(strings.TrimPrefix(line, "--"))
		if !strings.HasPrefix(body, InlineDirectivePrefix) {
			continue
		}
		cfg.applyDirective(strings.TrimPrefix(body, InlineDirectivePrefix))
	}
	return cfg
}

func (c *Config) applyDirective(directive string) {
	parts := strings.Split(directive, ":")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 {
		return
	}

	key := strings.ToLower(parts[0])
	if key == "rules" {
		// rules:<ID>:<option>:<value>
		if len(parts) < 4 {
			return
		}
		if c.RuleOptions == nil {
			c.RuleOptions = make(map[string]map[string]any)
		}
		opts := c.RuleOptions[parts[1]]
		if opts == nil {
			opts = make(map[string]any)
			c.RuleOptions[parts[1]] = opts
		}
		opts[parts[2]] = coerceValue(strings.Join(parts[3:], ":"))
		return
	}

	value := strings.Join(parts[1:], ":")
	switch key {
	case "dialect":
		c.Dialect = value
	case "templater":
		c.Templater = value
	case "encoding":
		c.Encoding = value
	case "rules_select", "select":
		c.Rules = splitList(value)
	case "exclude_rules":
		c.ExcludeRules = splitList(value)
	case "max_line_length":
		if n, err := strconv.Atoi(value); err == nil {
			c.MaxLineLength = n
		}
	case "runaway_limit":
		if n, err := strconv.Atoi(value); err == nil {
			c.RunawayLimit = n
		}
	}
}

// coerceValue converts a directive value to int, float, bool or string.
func coerceValue(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
