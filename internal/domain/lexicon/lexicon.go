// Package lexicon holds the weighted keyword tables used for viral-keyword
// fusion. The tables are plain data so scoring behavior can be tuned per
// deployment and tested in isolation; a YAML file can override the defaults.
package lexicon

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is one weighted group of words or one regexp pattern. A category
// contributes at most MatchCap matches to the score regardless of how many of
// its words appear.
type Category struct {
	Name     string   `yaml:"name"`
	Words    []string `yaml:"words,omitempty"`
	Pattern  string   `yaml:"pattern,omitempty"`
	Weight   float64  `yaml:"weight"`
	MatchCap int      `yaml:"match_cap,omitempty"`

	re *regexp.Regexp
}

// Lexicon is the full keyword table.
type Lexicon struct {
	Categories []Category `yaml:"categories"`
}

// Default returns the built-in viral keyword table.
func Default() Lexicon {
	return Lexicon{Categories: []Category{
		{
			Name: "emotional",
			Words: []string{
				"amazing", "incredible", "shocking", "wow", "unbelievable", "crazy",
				"insane", "mind-blowing", "genius", "brilliant", "stupid", "ridiculous",
			},
			Weight:   0.8,
			MatchCap: 1,
		},
		{
			Name: "action",
			Words: []string{
				"happened", "crashed", "exploded", "collapsed", "shattered", "destroyed",
				"broke", "failed", "succeeded", "won", "lost", "killed", "beaten",
			},
			Weight:   0.9,
			MatchCap: 1,
		},
		{
			Name: "revelation",
			Words: []string{
				"secret", "truth", "never knew", "didn't know", "find out", "discover",
				"reveal", "exposed", "turns out", "actually", "wait", "hold on",
			},
			Weight:   0.85,
			MatchCap: 1,
		},
		{
			Name:     "data",
			Pattern:  `\d+(?:%|k|m|billion|million|thousand|x|times)?`,
			Weight:   0.7,
			MatchCap: 1,
		},
		{
			Name: "hook",
			Words: []string{
				"what if", "imagine", "picture this", "think about", "consider this",
				"would you", "could you", "have you ever",
			},
			Weight:   0.75,
			MatchCap: 1,
		},
	}}
}

// Load reads a lexicon from a YAML file and validates it.
func Load(path string) (Lexicon, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, err
	}
	var lx Lexicon
	if err := yaml.Unmarshal(b, &lx); err != nil {
		return Lexicon{}, fmt.Errorf("parse lexicon %s: %w", path, err)
	}
	if err := lx.Validate(); err != nil {
		return Lexicon{}, fmt.Errorf("lexicon %s: %w", path, err)
	}
	return lx, nil
}

// Validate checks category names, weights, and compiles patterns.
func (lx *Lexicon) Validate() error {
	if len(lx.Categories) == 0 {
		return fmt.Errorf("no categories defined")
	}
	seen := map[string]bool{}
	for i := range lx.Categories {
		c := &lx.Categories[i]
		if c.Name == "" {
			return fmt.Errorf("category %d has no name", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate category %q", c.Name)
		}
		seen[c.Name] = true
		if c.Weight <= 0 {
			return fmt.Errorf("category %q: weight must be > 0", c.Name)
		}
		if len(c.Words) == 0 && c.Pattern == "" {
			return fmt.Errorf("category %q: needs words or a pattern", c.Name)
		}
		if c.Pattern != "" {
			re, err := regexp.Compile(c.Pattern)
			if err != nil {
				return fmt.Errorf("category %q: %w", c.Name, err)
			}
			c.re = re
		}
		if c.MatchCap <= 0 {
			c.MatchCap = 1
		}
	}
	return nil
}

// Match holds the keywords found in a text together with the fused score.
type Match struct {
	Keywords []string
	Score    float64
}

const amplification = 1.5

// Scan matches text against every category and returns the found keywords
// with a normalized [0,10] score. Each category counts at most MatchCap
// times; the normalized sum is amplified by 1.5 before the cap at 10.
func (lx Lexicon) Scan(text string) Match {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return Match{}
	}

	var (
		found          []string
		score          float64
		weightsApplied float64
	)
	for i := range lx.Categories {
		c := &lx.Categories[i]
		hits := 0
		if c.Pattern != "" {
			re := c.re
			if re == nil {
				// Lexicon built literally rather than via Load.
				re = regexp.MustCompile(c.Pattern)
			}
			if re.MatchString(t) {
				found = append(found, c.Name)
				hits = 1
			}
		} else {
			for _, w := range c.Words {
				if strings.Contains(t, w) {
					found = append(found, w)
					hits++
					if hits >= c.MatchCap {
						break
					}
				}
			}
		}
		if hits > 0 {
			score += 7.0 * c.Weight * float64(hits)
			weightsApplied += c.Weight * float64(hits)
		}
	}

	if weightsApplied > 0 {
		score = score / weightsApplied * amplification
		if score > 10 {
			score = 10
		}
	}
	return Match{Keywords: dedupe(found), Score: score}
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
