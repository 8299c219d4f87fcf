package service

import (
	"fmt"
	"strings"

	"ikigai/internal/analysis/models"
	"ikigai/internal/scoring"
)

// tagLabels maps answer tags to the display labels used in generated
// analyses. Tags without a label fall back to a title-cased form.
var tagLabels = map[string]string{
	"create":        "Créativité",
	"creativity":    "Créativité",
	"analyze":       "Analyse",
	"teach":         "Enseignement",
	"connect":       "Networking",
	"build":         "Construction",
	"explore":       "Exploration",
	"impact":        "Impact positif",
	"tech":          "Technologie",
	"art":           "Art & Design",
	"business":      "Business",
	"science":       "Sciences",
	"social":        "Impact social",
	"health":        "Santé & Bien-être",
	"challenge":     "Défis",
	"learn":         "Apprentissage",
	"freedom":       "Liberté",
	"communication": "Communication",
	"leadership":    "Leadership",
	"education":     "Éducation",
	"environment":   "Environnement",
	"innovation":    "Innovation",
	"startup":       "Startup",
	"remote":        "Télétravail",
	"freelance":     "Freelance",
}

const maxThemes = 5

// planCounts holds how many recommendations each plan receives.
type planCounts struct {
	career   int
	business int
}

func countsForPlan(plan string) planCounts {
	switch strings.ToLower(strings.TrimSpace(plan)) {
	case "essentiel", "premium":
		return planCounts{career: 10, business: 5}
	default:
		return planCounts{career: 3, business: 0}
	}
}

// generate builds an analysis locally from the answers alone. It is fully
// deterministic so repeated submissions with identical answers read the same,
// and it leaves Score unset for the caller to fill from the scoring table.
func (s *Service) generate(answers scoring.Answers, plan string) *models.Analysis {
	counts := countsForPlan(plan)
	matched := s.table.MatchedTags(answers)

	analysis := &models.Analysis{
		Passions: themes(matched[scoring.DimensionPassion],
			"Innovation", "Créativité", "Apprentissage"),
		Talents: themes(matched[scoring.DimensionProfession],
			"Résolution de problèmes", "Communication", "Organisation"),
		Mission: themes(matched[scoring.DimensionMission],
			"Impact positif", "Développement", "Contribution"),
		Vocation: themes(matched[scoring.DimensionVocation],
			"Conseil", "Formation", "Expertise"),
	}

	record := s.table.Aggregate(answers)
	analysis.CareerRecommendations = careerRecommendations(analysis, dominant(record), counts.career)
	if counts.business > 0 {
		analysis.BusinessIdeas = businessIdeas(analysis, counts.business)
	}
	return analysis
}

// themes converts matched tags into display labels, falling back to the
// provided defaults when no tag landed on the dimension.
func themes(tags []string, defaults ...string) []string {
	if len(tags) == 0 {
		return defaults
	}
	labels := make([]string, 0, len(tags))
	seen := make(map[string]struct{})
	for _, tag := range tags {
		label, ok := tagLabels[tag]
		if !ok {
			label = titleCase(tag)
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
		if len(labels) == maxThemes {
			break
		}
	}
	return labels
}

func titleCase(tag string) string {
	if tag == "" {
		return tag
	}
	return strings.ToUpper(tag[:1]) + tag[1:]
}

// dominant picks the highest-scoring dimension, breaking ties in a fixed
// order so the output stays deterministic.
func dominant(record scoring.Record) scoring.Dimension {
	best := scoring.DimensionPassion
	bestScore := record.Passion
	for _, candidate := range []struct {
		dim   scoring.Dimension
		score int
	}{
		{scoring.DimensionProfession, record.Profession},
		{scoring.DimensionMission, record.Mission},
		{scoring.DimensionVocation, record.Vocation},
	} {
		if candidate.score > bestScore {
			best = candidate.dim
			bestScore = candidate.score
		}
	}
	return best
}

func careerRecommendations(a *models.Analysis, dom scoring.Dimension, count int) []models.Recommendation {
	var recs []models.Recommendation

	switch {
	case dom == scoring.DimensionPassion && len(a.Passions) > 0:
		recs = append(recs, models.Recommendation{
			Title:       "Créateur " + a.Passions[0],
			Description: fmt.Sprintf("Exploitez votre passion pour %s en créant des projets innovants qui vous inspirent.", strings.ToLower(a.Passions[0])),
			MatchScore:  92,
		})
	case dom == scoring.DimensionMission && len(a.Mission) > 0:
		recs = append(recs, models.Recommendation{
			Title:       "Responsable " + a.Mission[0],
			Description: fmt.Sprintf("Dirigez des initiatives dans %s pour créer un impact durable.", strings.ToLower(a.Mission[0])),
			MatchScore:  90,
		})
	case dom == scoring.DimensionProfession && len(a.Talents) > 0:
		recs = append(recs, models.Recommendation{
			Title:       "Expert " + a.Talents[0],
			Description: fmt.Sprintf("Devenez une référence en %s grâce à votre expertise unique.", strings.ToLower(a.Talents[0])),
			MatchScore:  88,
		})
	default:
		recs = append(recs, models.Recommendation{
			Title:       "Consultant Stratégique",
			Description: "Conseillez des organisations en combinant vos compétences et votre vision.",
			MatchScore:  85,
		})
	}

	if len(a.Passions) > 0 && len(a.Mission) > 0 {
		recs = append(recs, models.Recommendation{
			Title:       fmt.Sprintf("Manager %s & %s", a.Passions[0], a.Mission[0]),
			Description: fmt.Sprintf("Combinez %s et %s dans un rôle de management.", strings.ToLower(a.Passions[0]), strings.ToLower(a.Mission[0])),
			MatchScore:  84,
		})
	}

	for len(recs) < count {
		sector := "Indépendant"
		if len(a.Vocation) > 0 {
			sector = a.Vocation[0]
		}
		recs = append(recs, models.Recommendation{
			Title:       "Consultant " + sector,
			Description: "Développez votre activité de conseil en exploitant votre expertise unique.",
			MatchScore:  75 - len(recs),
		})
	}
	return recs[:count]
}

func businessIdeas(a *models.Analysis, count int) []models.BusinessIdea {
	var ideas []models.BusinessIdea

	if len(a.Passions) > 0 && len(a.Mission) > 0 {
		ideas = append(ideas, models.BusinessIdea{
			Title:          fmt.Sprintf("Startup %s & %s", a.Passions[0], a.Mission[0]),
			Description:    fmt.Sprintf("Créez une entreprise alliant %s et %s.", strings.ToLower(a.Passions[0]), strings.ToLower(a.Mission[0])),
			ViabilityScore: 88,
		})
	}
	if len(a.Vocation) > 0 {
		ideas = append(ideas, models.BusinessIdea{
			Title:          "Plateforme " + a.Vocation[0],
			Description:    fmt.Sprintf("Développez une plateforme digitale dans le secteur %s.", strings.ToLower(a.Vocation[0])),
			ViabilityScore: 82,
		})
	}

	for len(ideas) < count {
		expertise := "Expertise"
		if len(a.Talents) > 0 {
			expertise = a.Talents[0]
		}
		ideas = append(ideas, models.BusinessIdea{
			Title:          "Consulting " + expertise,
			Description:    "Proposez vos services de conseil aux PME et startups.",
			ViabilityScore: 78 - len(ideas)*2,
		})
	}
	return ideas[:count]
}
