package dossier

// ProgressTable maps a workflow status to a completion percentage.
type ProgressTable map[string]int

// DefaultProgressTable covers the consultant pipeline vocabulary. Statuses
// from other vocabularies (e.g. "En cours") are absent and read as 0.
func DefaultProgressTable() ProgressTable {
	return ProgressTable{
		"En attente de documents": 20,
		"En cours d'analyse":      50,
		"Complet":                 80,
		"Prêt pour soumission":    95,
		"Soumis au bailleur":      100,
		"Accepté":                 100,
		"Refusé":                  100,
	}
}

// Progress returns the percentage for status, or 0 when it is not in the table.
func (t ProgressTable) Progress(status string) int {
	return t[status]
}

// ViabilityStars converts a 0..100 score into 0..5 stars, rounding halves up.
func ViabilityStars(score int) int {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return (score + 10) / 20
}

// Completion badges shown alongside the score.
const (
	BadgeReady      = "Prêt pour soumission"
	BadgeAlmost     = "Documents presque complets"
	BadgeFinalizing = "En cours de finalisation"
	BadgeIncomplete = "Documents incomplets"
)

// CompletionBadge labels a completion score.
func CompletionBadge(score int) string {
	switch {
	case score >= 80:
		return BadgeReady
	case score >= 60:
		return BadgeAlmost
	case score >= 40:
		return BadgeFinalizing
	default:
		return BadgeIncomplete
	}
}
