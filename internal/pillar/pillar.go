package pillar

// Pillar represents one of the four fixed diagnostic axes.
type Pillar string

const (
	Clarity   Pillar = "clarity"
	Structure Pillar = "structure"
	Execution Pillar = "execution"
	Emotional Pillar = "emotional"
)

// All returns the pillars in canonical display order.
func All() []Pillar {
	return []Pillar{Clarity, Structure, Execution, Emotional}
}

// DisplayName returns the human-readable name for a pillar.
func DisplayName(p Pillar) string {
	switch p {
	case Clarity:
		return "Clareza Estratégica"
	case Structure:
		return "Estrutura de Projeto"
	case Execution:
		return "Execução Consistente"
	case Emotional:
		return "Autogestão Emocional"
	default:
		return string(p)
	}
}

// IsValid reports whether p is one of the four known pillars.
func (p Pillar) IsValid() bool {
	switch p {
	case Clarity, Structure, Execution, Emotional:
		return true
	}
	return false
}

// Parse converts a raw string into a Pillar. Unknown or empty values
// return the zero Pillar and false, never an error: pillar tags arrive
// from external rows and an unrecognized tag is a recoverable condition.
func Parse(value string) (Pillar, bool) {
	p := Pillar(value)
	if p.IsValid() {
		return p, true
	}
	return "", false
}
