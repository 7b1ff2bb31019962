package models

// Качественные шкалы, общие для констатов и рисков.
// Закрытые перечисления вместо свободных строк.

type Impact string

const (
	ImpactLow      Impact = "low"
	ImpactMedium   Impact = "medium"
	ImpactHigh     Impact = "high"
	ImpactCritical Impact = "critical"
)

type Probabilite string

const (
	ProbLow    Probabilite = "low"
	ProbMedium Probabilite = "medium"
	ProbHigh   Probabilite = "high"
)

// Niveau — итоговый уровень риска (выход движка оценки).
type Niveau string

const (
	NiveauLow      Niveau = "low"
	NiveauMedium   Niveau = "medium"
	NiveauHigh     Niveau = "high"
	NiveauCritical Niveau = "critical"
)

type Decision string

const (
	DecisionEvaluer    Decision = "to_evaluate"
	DecisionTraiter    Decision = "to_treat"
	DecisionAccepter   Decision = "to_accept"
	DecisionTransferer Decision = "to_transfer"
)

type Criticite string

const (
	CriticiteLow    Criticite = "low"
	CriticiteMedium Criticite = "medium"
	CriticiteHigh   Criticite = "high"
)

type Priorite string

const (
	PrioriteLow    Priorite = "low"
	PrioriteMedium Priorite = "medium"
	PrioriteHigh   Priorite = "high"
)

type Complexite string

const (
	ComplexiteLow    Complexite = "low"
	ComplexiteMedium Complexite = "medium"
	ComplexiteHigh   Complexite = "high"
)
