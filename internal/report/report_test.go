package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexdiag/cortex/internal/pillar"
)

func scores(general, phase2, clarity, structure, execution, emotional int) *CycleScores {
	return &CycleScores{
		GeneralIndex:       general,
		Phase2GeneralIndex: phase2,
		Pillars: map[pillar.Pillar]int{
			pillar.Clarity:   clarity,
			pillar.Structure: structure,
			pillar.Execution: execution,
			pillar.Emotional: emotional,
		},
	}
}

func TestBuild_NoCurrentCycle(t *testing.T) {
	r := Build(nil, nil)
	assert.False(t, r.HasBaseline)
	assert.Empty(t, r.Metrics)
	assert.Equal(t, "Inicie um diagnóstico para habilitar o relatório comparativo.", r.Summary)
}

func TestBuild_NoBaseline(t *testing.T) {
	r := Build(scores(70, 65, 60, 70, 75, 75), nil)

	assert.False(t, r.HasBaseline)
	require.Len(t, r.Metrics, 6)
	for _, m := range r.Metrics {
		assert.Nil(t, m.Previous, m.Key)
		assert.Nil(t, m.Variation, m.Key)
		assert.Equal(t, TrendFlat, m.Trend, m.Key)
		assert.False(t, m.IsRegression, m.Key)
		assert.Equal(t, "Sem base anterior para comparação.", m.Interpretation, m.Key)
	}
	assert.Equal(t, "Sem ciclo anterior para comparação direta.", r.Summary)
}

func TestBuild_TrendsAndInterpretations(t *testing.T) {
	current := scores(70, 65, 60, 70, 75, 75)
	previous := scores(55, 64, 72, 70, 80, 76)
	r := Build(current, previous)

	require.True(t, r.HasBaseline)
	byKey := map[string]Metric{}
	for _, m := range r.Metrics {
		byKey[m.Key] = m
	}

	general := byKey["general"]
	require.NotNil(t, general.Variation)
	assert.InDelta(t, 15.0, *general.Variation, 0.001)
	assert.Equal(t, TrendUp, general.Trend)
	assert.Equal(t, "Evolução robusta neste indicador.", general.Interpretation)

	phase2 := byKey["phase2"]
	assert.InDelta(t, 1.0, *phase2.Variation, 0.001)
	assert.Equal(t, "Indicador estável em relação ao ciclo anterior.", phase2.Interpretation)

	clarity := byKey["pillar:clarity"]
	assert.InDelta(t, -12.0, *clarity.Variation, 0.001)
	assert.Equal(t, TrendDown, clarity.Trend)
	assert.True(t, clarity.IsRegression)
	assert.Equal(t, "Regressão crítica que exige intervenção imediata.", clarity.Interpretation)

	structure := byKey["pillar:structure"]
	assert.InDelta(t, 0.0, *structure.Variation, 0.001)
	assert.Equal(t, TrendFlat, structure.Trend)

	execution := byKey["pillar:execution"]
	assert.InDelta(t, -5.0, *execution.Variation, 0.001)
	assert.False(t, execution.IsRegression)
	assert.Equal(t, "Regressão relevante. Ajuste seu plano de ação.", execution.Interpretation)
}

func TestBuild_RegressionBoundary(t *testing.T) {
	// Exactly -8 is a regression; -7 is not.
	r := Build(scores(52, 0, 0, 0, 0, 0), scores(60, 0, 0, 0, 0, 0))
	byKey := map[string]Metric{}
	for _, m := range r.Metrics {
		byKey[m.Key] = m
	}
	assert.True(t, byKey["general"].IsRegression)

	r = Build(scores(53, 0, 0, 0, 0, 0), scores(60, 0, 0, 0, 0, 0))
	for _, m := range r.Metrics {
		if m.Key == "general" {
			assert.False(t, m.IsRegression)
		}
	}
}

func TestBuild_RegressionAlertText(t *testing.T) {
	r := Build(scores(50, 0, 0, 0, 0, 0), scores(62, 0, 0, 0, 0, 0))
	require.NotEmpty(t, r.RegressionAlerts)
	assert.Equal(t, "Índice Geral: queda de 12.0 pontos percentuais.", r.RegressionAlerts[0])
}

func TestBuild_SummaryCounts(t *testing.T) {
	// More negatives than positives.
	r := Build(scores(50, 50, 50, 50, 50, 60), scores(60, 60, 60, 40, 50, 50))
	assert.Equal(t, "Tendência de regressão em parte relevante dos indicadores.", r.Summary)

	// Balanced gains and losses.
	r = Build(scores(60, 50, 50, 50, 50, 50), scores(50, 60, 50, 50, 50, 50))
	assert.Equal(t, "Oscilação equilibrada entre ganhos e perdas no comparativo.", r.Summary)

	// More positives than negatives.
	r = Build(scores(60, 61, 62, 50, 50, 50), scores(50, 50, 50, 50, 50, 50))
	assert.Equal(t, "Tendência de evolução geral com avanço na maior parte dos indicadores.", r.Summary)
}
