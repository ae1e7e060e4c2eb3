// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeDirectoryBusinesses QueryType = "directory-businesses"
	QueryTypeBusinessDetails     QueryType = "business-details"
	QueryTypeCommunityProfile    QueryType = "community-profile"
	QueryTypeMatchCandidates     QueryType = "match-candidates"
)

func (qt QueryType) IsValid() bool {
	switch qt {
	case QueryTypeDirectoryBusinesses,
		QueryTypeBusinessDetails,
		QueryTypeCommunityProfile,
		QueryTypeMatchCandidates:
		return true
	}
	return false
}
