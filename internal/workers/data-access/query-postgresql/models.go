// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

type Input struct {
	QueryType   string                 `json:"queryType"`
	BusinessID  string                 `json:"businessId,omitempty"`
	BusinessIDs []string               `json:"businessIds,omitempty"`
	UserID      string                 `json:"userId,omitempty"`
	Filters     map[string]interface{} `json:"filters,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"`
}
