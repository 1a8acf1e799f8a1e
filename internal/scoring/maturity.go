package scoring

// MaturityLevel bands a percentage into one of four maturity tiers.
type MaturityLevel string

const (
	MaturityCritical   MaturityLevel = "critico"
	MaturityAttention  MaturityLevel = "atencao"
	MaturityConsistent MaturityLevel = "consistente"
	MaturityStrong     MaturityLevel = "forte"
)

// Maturity is a classified percentage with display strings.
type Maturity struct {
	Level       MaturityLevel
	Label       string
	Description string
}

// ClassifyMaturity bands a 0-100 percentage. Band edges are inclusive on
// the lower side: exactly 40 is critico, exactly 60 is atencao, exactly
// 80 is consistente.
func ClassifyMaturity(percent int) Maturity {
	switch {
	case percent <= 40:
		return Maturity{
			Level:       MaturityCritical,
			Label:       "Crítico",
			Description: "Exige intervenção imediata para evitar bloqueios de conclusão.",
		}
	case percent <= 60:
		return Maturity{
			Level:       MaturityAttention,
			Label:       "Atenção",
			Description: "Há fragilidade relevante. Priorize ajustes estruturais.",
		}
	case percent <= 80:
		return Maturity{
			Level:       MaturityConsistent,
			Label:       "Consistente",
			Description: "Base funcional. Foque em consistência para ganhar tração.",
		}
	default:
		return Maturity{
			Level:       MaturityStrong,
			Label:       "Forte",
			Description: "Pilar maduro com boa capacidade de sustentação.",
		}
	}
}
