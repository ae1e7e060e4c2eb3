// internal/workers/matching/calculate-compatibility/models.go
package calculatecompatibility

type Input struct {
	UserID       string   `json:"userId"`
	CandidateIDs []string `json:"candidateIds"`
}

type Output struct {
	UserID  string        `json:"userId"`
	Matches []MatchResult `json:"matches"`
}

type MatchResult struct {
	CandidateID  string   `json:"candidateId"`
	Score        int      `json:"score"`
	Reasons      []string `json:"reasons"`
	ProfileFound bool     `json:"profileFound"`
}
