// Package brainprint implements the cognitive-profile aggregator of
// spec §4.8: batch and incremental skill aggregation, top-K reporting,
// category distribution, and static growth-area insights.
package brainprint

// Category names a fixed grouping of the 22 tracked skills.
const (
	CategorySemantic  = "semantic"
	CategoryCreative  = "creative"
	CategoryExecutive = "executive"
	CategoryAffective = "affective"
)

// reservedKeys are meta fields that ride alongside skill signals in
// some callers' maps but are never themselves aggregated as skills.
var reservedKeys = map[string]bool{
	"last_updated":     true,
	"total_games":      true,
	"confidence_score": true,
}

// skillCategory maps each of the 22 tracked skills to its category.
// The set is fixed at package scope: plugins may emit any subset of
// these as skill_signals, and any signal name absent here is still
// aggregated into the brainprint but excluded from category/insight
// reporting.
var skillCategory = map[string]string{
	"semantic_matching":     CategorySemantic,
	"vocabulary_depth":      CategorySemantic,
	"conceptual_bridging":   CategorySemantic,
	"semantic_balance":      CategorySemantic,
	"word_association":      CategorySemantic,
	"contextual_reasoning":  CategorySemantic,

	"divergent_thinking":     CategoryCreative,
	"analogy_making":         CategoryCreative,
	"conceptual_blending":    CategoryCreative,
	"novelty_generation":     CategoryCreative,
	"imaginative_flexibility": CategoryCreative,

	"precision":                CategoryExecutive,
	"inference":                CategoryExecutive,
	"pattern_recognition":      CategoryExecutive,
	"categorization_precision": CategoryExecutive,
	"working_memory":           CategoryExecutive,
	"planning_depth":           CategoryExecutive,

	"emotional_regulation":    CategoryAffective,
	"frustration_tolerance":   CategoryAffective,
	"risk_tolerance":          CategoryAffective,
	"motivation_persistence":  CategoryAffective,
	"affective_awareness":     CategoryAffective,
}

// categoryMembers is the inverse of skillCategory, computed once.
var categoryMembers = func() map[string][]string {
	out := map[string][]string{
		CategorySemantic:  {},
		CategoryCreative:  {},
		CategoryExecutive: {},
		CategoryAffective: {},
	}
	for skill, cat := range skillCategory {
		out[cat] = append(out[cat], skill)
	}
	return out
}()

// recommendedGameBySkill maps a skill to the reference plugin whose
// mechanics best exercise it. Every plugin currently shipped is
// represented so Insights always has something concrete to recommend.
var recommendedGameBySkill = map[string]string{
	"semantic_matching":       "synonym_rush",
	"vocabulary_depth":        "synonym_rush",
	"word_association":        "synonym_rush",
	"contextual_reasoning":     "synonym_rush",
	"conceptual_bridging":     "midpoint_bridge",
	"semantic_balance":        "midpoint_bridge",
	"divergent_thinking":      "midpoint_bridge",
	"analogy_making":          "midpoint_bridge",
	"conceptual_blending":     "midpoint_bridge",
	"novelty_generation":      "midpoint_bridge",
	"imaginative_flexibility": "midpoint_bridge",
	"precision":                "cluster_sort",
	"inference":                "cluster_sort",
	"pattern_recognition":      "cluster_sort",
	"categorization_precision": "cluster_sort",
	"working_memory":           "cluster_sort",
	"planning_depth":           "cluster_sort",
	"emotional_regulation":    "midpoint_bridge",
	"frustration_tolerance":   "synonym_rush",
	"risk_tolerance":          "cluster_sort",
	"motivation_persistence":  "synonym_rush",
	"affective_awareness":     "midpoint_bridge",
}

// isReserved reports whether key is a meta field rather than a skill.
func isReserved(key string) bool {
	return reservedKeys[key]
}
