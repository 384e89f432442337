package chatbot

import "regexp"

// Keyword classes for slot extraction and intent detection. The question is
// lower-cased before matching; the matricule pattern runs on the upper-cased
// form.
var (
	reGreeting = regexp.MustCompile(`\b(bonjour|salut|hello|bonsoir|coucou)\b`)
	reHelp     = regexp.MustCompile(`\b(aide|help|aider|capacités|que peux-tu)\b`)

	reAlertIntent       = regexp.MustCompile(`alerte|alertes|signalement`)
	rePredictionIntent  = regexp.MustCompile(`prédic|prédire|prévoir|prévision|pronostic|forecast`)
	reComparisonIntent  = regexp.MustCompile(`compar|versus|\bvs\b|par rapport`)
	reTrendIntent       = regexp.MustCompile(`tendance|évolution|progression|trend`)
	rePerformanceIntent = regexp.MustCompile(`performance|assiduité`)
	reRankingIntent     = regexp.MustCompile(`meilleur|pire|problème|problem|classement|\btop\b|le plus de`)

	reLate     = regexp.MustCompile(`retard|late|délai|ponctualité`)
	reAbsence  = regexp.MustCompile(`absent|absence|manque|manquant`)
	rePresence = regexp.MustCompile(`présent|presence|présence`)

	reToday = regexp.MustCompile(`aujourd'hui|today|ce jour`)
	reWeek  = regexp.MustCompile(`semaine|week`)
	reMonth = regexp.MustCompile(`mois|month`)

	reMatricule = regexp.MustCompile(`[CPR]\d+`)

	reWorst = regexp.MustCompile(`pire|problème|problem|mauvais`)
)
