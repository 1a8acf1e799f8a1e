package blueprint

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cortexdiag/cortex/internal/pillar"
)

// fileBlueprint is the YAML shape for per-deployment content overrides.
// Every section is optional; omitted sections keep the embedded defaults.
type fileBlueprint struct {
	Phase1 []struct {
		Pillar    string   `yaml:"pillar"`
		Title     string   `yaml:"title"`
		Questions []string `yaml:"questions"`
	} `yaml:"phase1"`
	Technical   map[string][]string `yaml:"technical"`
	State       []string            `yaml:"state"`
	Reflections []string            `yaml:"reflections"`
	ActionBlocks []struct {
		Block   int      `yaml:"block"`
		Title   string   `yaml:"title"`
		Actions []string `yaml:"actions"`
	} `yaml:"action_blocks"`
	Options []struct {
		Value int    `yaml:"value"`
		Label string `yaml:"label"`
	} `yaml:"options"`
}

// Load reads a YAML override file and merges it over the embedded defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (*Blueprint, error) {
	b := Default()
	if path == "" {
		return b, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read blueprint file: %w", err)
	}

	var file fileBlueprint
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse blueprint file: %w", err)
	}

	if len(file.Phase1) > 0 {
		pillars := make([]Phase1Pillar, 0, len(file.Phase1))
		for _, entry := range file.Phase1 {
			p, ok := pillar.Parse(entry.Pillar)
			if !ok {
				return nil, fmt.Errorf("blueprint: unknown pillar %q in phase1", entry.Pillar)
			}
			pillars = append(pillars, Phase1Pillar{
				Pillar:    p,
				Title:     entry.Title,
				Questions: entry.Questions,
			})
		}
		b.Phase1Pillars = pillars
	}

	if len(file.Technical) > 0 {
		bank := make(map[pillar.Pillar][]string, len(file.Technical))
		for key, questions := range file.Technical {
			p, ok := pillar.Parse(key)
			if !ok {
				return nil, fmt.Errorf("blueprint: unknown pillar %q in technical bank", key)
			}
			bank[p] = questions
		}
		b.TechnicalBank = bank
	}

	if len(file.State) > 0 {
		b.StateQuestions = file.State
	}
	if len(file.Reflections) > 0 {
		b.ReflectionPrompts = file.Reflections
	}
	if len(file.ActionBlocks) > 0 {
		blocks := make([]ActionBlock, 0, len(file.ActionBlocks))
		for _, entry := range file.ActionBlocks {
			blocks = append(blocks, ActionBlock{
				Block:   entry.Block,
				Title:   entry.Title,
				Actions: entry.Actions,
			})
		}
		b.ActionBlocks = blocks
	}
	if len(file.Options) > 0 {
		options := make([]ResponseOption, 0, len(file.Options))
		for _, entry := range file.Options {
			options = append(options, ResponseOption{Value: entry.Value, Label: entry.Label})
		}
		b.ResponseOptions = options
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the structural invariants the engine depends on.
func (b *Blueprint) Validate() error {
	if len(b.Phase1Pillars) == 0 {
		return fmt.Errorf("blueprint: phase1 has no pillars")
	}
	seen := make(map[pillar.Pillar]bool)
	for _, p := range b.Phase1Pillars {
		if len(p.Questions) == 0 {
			return fmt.Errorf("blueprint: pillar %s has no phase1 questions", p.Pillar)
		}
		if seen[p.Pillar] {
			return fmt.Errorf("blueprint: pillar %s appears twice in phase1", p.Pillar)
		}
		seen[p.Pillar] = true
	}
	for _, p := range pillar.All() {
		if len(b.TechnicalBank[p]) == 0 {
			return fmt.Errorf("blueprint: technical bank missing pillar %s", p)
		}
	}
	if len(b.StateQuestions) == 0 {
		return fmt.Errorf("blueprint: no state questions")
	}
	if len(b.ReflectionPrompts) == 0 {
		return fmt.Errorf("blueprint: no reflection prompts")
	}
	if len(b.ActionBlocks) != 3 {
		return fmt.Errorf("blueprint: protocol requires exactly 3 action blocks, got %d", len(b.ActionBlocks))
	}
	for _, blk := range b.ActionBlocks {
		if len(blk.Actions) != 3 {
			return fmt.Errorf("blueprint: block %d requires exactly 3 actions, got %d", blk.Block, len(blk.Actions))
		}
	}
	for _, opt := range b.ResponseOptions {
		if opt.Value < ScoreMin || opt.Value > ScoreMax {
			return fmt.Errorf("blueprint: option value %d outside [%d,%d]", opt.Value, ScoreMin, ScoreMax)
		}
	}
	return nil
}
