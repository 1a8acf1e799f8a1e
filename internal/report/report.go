// Package report builds the comparative report between the two most recent
// completed diagnostic cycles, flagging regressions per metric.
package report

import (
	"fmt"
	"math"

	"github.com/cortexdiag/cortex/internal/pillar"
)

// regressionThreshold marks a metric as regressed when its variation is at
// or below this value.
const regressionThreshold = -8.0

// Trend is the direction of a metric's variation.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// CycleScores carries the comparable score fields of one cycle.
type CycleScores struct {
	GeneralIndex       int
	Phase2GeneralIndex int
	Pillars            map[pillar.Pillar]int
}

// Metric is the comparison of one indicator across two cycles. Previous and
// Variation are nil when there is no baseline cycle.
type Metric struct {
	Key            string
	Label          string
	Current        float64
	Previous       *float64
	Variation      *float64
	Interpretation string
	Trend          Trend
	IsRegression   bool
}

// Report is the full comparative result.
type Report struct {
	HasBaseline      bool
	Metrics          []Metric
	RegressionAlerts []string
	Summary          string
}

// Build compares the current cycle's scores against the previous cycle's.
// A nil current yields an empty "start a diagnostic" report; a nil previous
// yields per-metric no-baseline entries instead of attempting comparison.
func Build(current, previous *CycleScores) Report {
	if current == nil {
		return Report{
			Summary: "Inicie um diagnóstico para habilitar o relatório comparativo.",
		}
	}

	metrics := []Metric{
		buildMetric("general", "Índice Geral", current.GeneralIndex, previous, func(p *CycleScores) int { return p.GeneralIndex }),
		buildMetric("phase2", "Índice Refinado", current.Phase2GeneralIndex, previous, func(p *CycleScores) int { return p.Phase2GeneralIndex }),
	}
	for _, p := range pillar.All() {
		p := p
		metrics = append(metrics, buildMetric(
			"pillar:"+string(p),
			pillar.DisplayName(p),
			current.Pillars[p],
			previous,
			func(prev *CycleScores) int { return prev.Pillars[p] },
		))
	}

	var alerts []string
	positive, negative := 0, 0
	for _, m := range metrics {
		if m.IsRegression {
			alerts = append(alerts, fmt.Sprintf("%s: queda de %.1f pontos percentuais.", m.Label, math.Abs(*m.Variation)))
		}
		if m.Variation == nil {
			continue
		}
		if *m.Variation > 0 {
			positive++
		} else if *m.Variation < 0 {
			negative++
		}
	}

	summary := "Sem ciclo anterior para comparação direta."
	if previous != nil {
		switch {
		case positive > negative:
			summary = "Tendência de evolução geral com avanço na maior parte dos indicadores."
		case negative > positive:
			summary = "Tendência de regressão em parte relevante dos indicadores."
		default:
			summary = "Oscilação equilibrada entre ganhos e perdas no comparativo."
		}
	}

	return Report{
		HasBaseline:      previous != nil,
		Metrics:          metrics,
		RegressionAlerts: alerts,
		Summary:          summary,
	}
}

func buildMetric(key, label string, current int, previous *CycleScores, pick func(*CycleScores) int) Metric {
	m := Metric{
		Key:     key,
		Label:   label,
		Current: float64(current),
		Trend:   TrendFlat,
	}
	if previous == nil {
		m.Interpretation = "Sem base anterior para comparação."
		return m
	}

	prev := float64(pick(previous))
	variation := math.Round((float64(current)-prev)*10) / 10
	m.Previous = &prev
	m.Variation = &variation
	m.Interpretation = interpret(variation)
	m.IsRegression = variation <= regressionThreshold

	switch {
	case variation > 0:
		m.Trend = TrendUp
	case variation < 0:
		m.Trend = TrendDown
	}
	return m
}

func interpret(variation float64) string {
	switch {
	case variation >= 10:
		return "Evolução robusta neste indicador."
	case variation >= 3:
		return "Evolução consistente no período."
	case variation <= -10:
		return "Regressão crítica que exige intervenção imediata."
	case variation <= -3:
		return "Regressão relevante. Ajuste seu plano de ação."
	default:
		return "Indicador estável em relação ao ciclo anterior."
	}
}
