package risk

import (
	"errors"
	"fmt"

	"audit-remediation/internal/models"
)

// ErrInvalidEnum — значение вне шкалы; это ошибка программирования
// вызывающей стороны, а не бизнес-ситуация.
var ErrInvalidEnum = errors.New("invalid enum value")

var impactScores = map[models.Impact]int{
	models.ImpactLow:      1,
	models.ImpactMedium:   2,
	models.ImpactHigh:     3,
	models.ImpactCritical: 4,
}

var probScores = map[models.Probabilite]int{
	models.ProbLow:    1,
	models.ProbMedium: 2,
	models.ProbHigh:   3,
}

// Score — чистая детерминированная оценка риска: произведение баллов
// impact и probabilité раскладывается по четырём диапазонам.
// Предлагаемое решение носит справочный характер, вызывающая сторона
// вправе его переопределить.
func Score(impact models.Impact, prob models.Probabilite) (models.Niveau, models.Decision, error) {
	is, ok := impactScores[impact]
	if !ok {
		return "", "", fmt.Errorf("%w: impact %q", ErrInvalidEnum, impact)
	}
	ps, ok := probScores[prob]
	if !ok {
		return "", "", fmt.Errorf("%w: probabilite %q", ErrInvalidEnum, prob)
	}

	product := is * ps

	var niveau models.Niveau
	switch {
	case product < 3:
		niveau = models.NiveauLow
	case product <= 5:
		niveau = models.NiveauMedium
	case product <= 8:
		niveau = models.NiveauHigh
	default:
		niveau = models.NiveauCritical
	}

	return niveau, suggestDecision(niveau), nil
}

func suggestDecision(n models.Niveau) models.Decision {
	switch n {
	case models.NiveauCritical, models.NiveauHigh:
		return models.DecisionTraiter
	case models.NiveauMedium:
		return models.DecisionEvaluer
	default:
		return models.DecisionAccepter
	}
}
