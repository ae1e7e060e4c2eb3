// Package matching computes cultural compatibility between two community
// profiles. Scoring is fully deterministic: the same two profiles always
// yield the same score and reasons.
package matching

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// LanguageBilingual is compatible with every language preference.
	LanguageBilingual = "bilingual"

	heritageBonus    = 30
	interestBonus    = 10
	interestBonusCap = 40
	languageBonus    = 30

	// minScore is the documented floor: profiles sharing nothing still
	// score 10 so percentage displays never divide by zero.
	minScore = 10
	maxScore = 100
)

// Profile holds the declared heritage and interests used for matching.
type Profile struct {
	ID                 string   `json:"id"`
	DisplayName        string   `json:"displayName"`
	HeritageCountries  []string `json:"heritageCountries"`
	Interests          []string `json:"interests"`
	LanguagePreference string   `json:"languagePreference"`
}

// Result is a compatibility percentage plus one human-readable reason per
// contributing factor, ordered heritage, interests, language.
type Result struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// MinScore exposes the documented floor for display layers.
func MinScore() int { return minScore }

// Score computes the compatibility between a user and a candidate. Each
// factor contributes independently on a 0-100 scale:
//
//   - any shared heritage country: fixed +30
//   - each shared interest tag: +10, capped at +40
//   - compatible language preference: +30 (bilingual matches everything)
//
// The result never drops below the floor and never exceeds 100.
func Score(user, candidate Profile) Result {
	score := 0
	reasons := make([]string, 0, 3)

	if shared := sharedValues(user.HeritageCountries, candidate.HeritageCountries); len(shared) > 0 {
		score += heritageBonus
		reasons = append(reasons, "Shared heritage: "+strings.Join(shared, ", "))
	}

	if shared := sharedValues(user.Interests, candidate.Interests); len(shared) > 0 {
		bonus := len(shared) * interestBonus
		if bonus > interestBonusCap {
			bonus = interestBonusCap
		}
		score += bonus
		reasons = append(reasons, fmt.Sprintf("%d shared interests: %s", len(shared), strings.Join(shared, ", ")))
	}

	if compatible, reason := languageCompatibility(user.LanguagePreference, candidate.LanguagePreference); compatible {
		score += languageBonus
		reasons = append(reasons, reason)
	}

	if score < minScore {
		score = minScore
	}
	if score > maxScore {
		score = maxScore
	}

	return Result{Score: score, Reasons: reasons}
}

// sharedValues intersects two tag lists case-insensitively, returning the
// shared tags deduplicated and sorted for reproducible reasons.
func sharedValues(a, b []string) []string {
	set := make(map[string]string, len(a))
	for _, v := range a {
		norm := normalizeTag(v)
		if norm != "" {
			set[norm] = strings.TrimSpace(v)
		}
	}

	seen := make(map[string]bool)
	shared := []string{}
	for _, v := range b {
		norm := normalizeTag(v)
		if norm == "" || seen[norm] {
			continue
		}
		if display, ok := set[norm]; ok {
			shared = append(shared, display)
			seen[norm] = true
		}
	}

	sort.Strings(shared)
	return shared
}

func normalizeTag(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// languageCompatibility applies the bilingual wildcard: bilingual speakers
// are compatible with everything, otherwise preferences must match exactly.
func languageCompatibility(user, candidate string) (bool, string) {
	u := normalizeTag(user)
	c := normalizeTag(candidate)
	if u == "" || c == "" {
		return false, ""
	}

	switch {
	case u == LanguageBilingual || c == LanguageBilingual:
		return true, "Language compatible: bilingual"
	case u == c:
		return true, "Both prefer " + c
	default:
		return false, ""
	}
}
