// internal/models/profile.go
package models

type CommunityProfile struct {
	UserID             string   `json:"userId"`
	DisplayName        string   `json:"displayName"`
	City               string   `json:"city"`
	HeritageCountries  []string `json:"heritageCountries"`
	Interests          []string `json:"interests"`
	LanguagePreference string   `json:"languagePreference"` // "portuguese", "english", "bilingual"
	CreatedAt          string   `json:"createdAt"`
}
