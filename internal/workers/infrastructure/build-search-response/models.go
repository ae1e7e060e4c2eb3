// internal/workers/infrastructure/build-search-response/models.go
package buildsearchresponse

type Input struct {
	RequestID      string                   `json:"requestId"`
	Results        []map[string]interface{} `json:"results"`
	TotalCount     int                      `json:"totalCount"`
	SkippedRecords int                      `json:"skippedRecords"`
	SortApplied    string                   `json:"sortApplied"`
	Pagination     Pagination               `json:"pagination"`
}

type Pagination struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

type Output struct {
	Response ResponsePayload `json:"response"`
}

type ResponsePayload struct {
	RequestID string                 `json:"requestId"`
	Status    string                 `json:"status"` // "success" or "error"
	Data      map[string]interface{} `json:"data"`
	Metadata  ResponseMetadata       `json:"metadata"`
}

type ResponseMetadata struct {
	Timestamp string `json:"timestamp"` // ISO 8601
	Version   string `json:"version"`
}
