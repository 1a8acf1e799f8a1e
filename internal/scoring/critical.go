package scoring

import (
	"sort"

	"github.com/cortexdiag/cortex/internal/blueprint"
	"github.com/cortexdiag/cortex/internal/pillar"
)

// criticalScoreCeiling is the highest score still flagged as a critical point.
const criticalScoreCeiling = 2

// CriticalPointInput is one answered phase-2 question considered for
// critical-point extraction. Pillar is set only for technical questions.
type CriticalPointInput struct {
	ID             string
	QuestionType   blueprint.QuestionType
	QuestionNumber int
	Score          int
	Title          string
	Pillar         pillar.Pillar
}

// CriticalPoint is a flagged low-score answer with its diagnosis text.
type CriticalPoint struct {
	CriticalPointInput
	Diagnosis string
}

// CriticalPoints filters answers with score <= 2, attaches a severity and
// question-type dependent diagnosis, and sorts ascending by score with
// ties broken by question number.
func CriticalPoints(items []CriticalPointInput) []CriticalPoint {
	var points []CriticalPoint
	for _, item := range items {
		if item.Score > criticalScoreCeiling {
			continue
		}
		points = append(points, CriticalPoint{
			CriticalPointInput: item,
			Diagnosis:          diagnosisText(item),
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Score != points[j].Score {
			return points[i].Score < points[j].Score
		}
		return points[i].QuestionNumber < points[j].QuestionNumber
	})
	return points
}

func diagnosisText(item CriticalPointInput) string {
	severity := "moderado"
	if item.Score <= 1 {
		severity = "alto"
	}

	if item.QuestionType == blueprint.TypeTechnical {
		return "Risco " + severity + " no eixo técnico. Este ponto compromete previsibilidade, priorização e entrega até a conclusão."
	}
	return "Risco " + severity + " no estado atual. O padrão emocional/operacional reduz consistência e aumenta chance de interrupção."
}
