// Package blueprint holds the diagnostic questionnaire content: phase-1
// question banks per pillar, the phase-2 technical bank and state questions,
// protocol reflection prompts and action blocks. Content ships embedded and
// can be replaced per-deployment through a YAML file.
package blueprint

import (
	"github.com/cortexdiag/cortex/internal/pillar"
)

// QuestionType distinguishes the two phase-2 question families.
type QuestionType string

const (
	TypeTechnical QuestionType = "technical"
	TypeState     QuestionType = "state"
)

// ScoreMin and ScoreMax bound every questionnaire answer.
const (
	ScoreMin = 1
	ScoreMax = 6
)

// ResponseOption is one selectable answer on the 1-6 scale.
type ResponseOption struct {
	Value int
	Label string
}

// Phase1Pillar groups the phase-1 questions belonging to one pillar.
type Phase1Pillar struct {
	Pillar    pillar.Pillar
	Title     string
	Questions []string
}

// Phase2Question is a single refined-assessment question. Number is the
// per-bank ordinal (1-based); technical and state questions number
// independently.
type Phase2Question struct {
	Number int
	Title  string
	Type   QuestionType
}

// ActionBlock is one of the three sequential protocol blocks.
type ActionBlock struct {
	Block   int
	Title   string
	Actions []string
}

// Blueprint is the full questionnaire configuration for a niche.
type Blueprint struct {
	Phase1Pillars     []Phase1Pillar
	ResponseOptions   []ResponseOption
	TechnicalBank     map[pillar.Pillar][]string
	StateQuestions    []string
	ReflectionPrompts []string
	ActionBlocks      []ActionBlock
}

// Default returns the embedded questionnaire content.
func Default() *Blueprint {
	return &Blueprint{
		Phase1Pillars:     defaultPhase1Pillars(),
		ResponseOptions:   defaultResponseOptions(),
		TechnicalBank:     defaultTechnicalBank(),
		StateQuestions:    defaultStateQuestions(),
		ReflectionPrompts: defaultReflectionPrompts(),
		ActionBlocks:      defaultActionBlocks(),
	}
}

// TotalPhase1Questions returns the number of questions across all pillars.
func (b *Blueprint) TotalPhase1Questions() int {
	total := 0
	for _, p := range b.Phase1Pillars {
		total += len(p.Questions)
	}
	return total
}

// Phase2Questions selects the refined-assessment questions for a critical
// pillar: the technical questions tagged with exactly that pillar, followed
// by the fixed state questions.
func (b *Blueprint) Phase2Questions(critical pillar.Pillar) []Phase2Question {
	technical := b.TechnicalBank[critical]
	questions := make([]Phase2Question, 0, len(technical)+len(b.StateQuestions))
	for i, title := range technical {
		questions = append(questions, Phase2Question{
			Number: i + 1,
			Title:  title,
			Type:   TypeTechnical,
		})
	}
	for i, title := range b.StateQuestions {
		questions = append(questions, Phase2Question{
			Number: i + 1,
			Title:  title,
			Type:   TypeState,
		})
	}
	return questions
}

// ReflectionCount returns the number of protocol reflection prompts.
// Never less than 1 so a misconfigured blueprint cannot make the
// reflection stage trivially complete.
func (b *Blueprint) ReflectionCount() int {
	if len(b.ReflectionPrompts) < 1 {
		return 1
	}
	return len(b.ReflectionPrompts)
}

// TotalProtocolActions returns the action count across all blocks.
func (b *Blueprint) TotalProtocolActions() int {
	total := 0
	for _, blk := range b.ActionBlocks {
		total += len(blk.Actions)
	}
	return total
}

func defaultResponseOptions() []ResponseOption {
	return []ResponseOption{
		{Value: 1, Label: "Nunca"},
		{Value: 2, Label: "Raramente"},
		{Value: 3, Label: "Pouco frequente"},
		{Value: 4, Label: "Frequentemente"},
		{Value: 5, Label: "Quase sempre"},
		{Value: 6, Label: "Sempre"},
	}
}
