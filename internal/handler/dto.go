package handler

// CountRequest is the body of the generate and seed endpoints. A missing or
// zero count selects the service default.
type CountRequest struct {
	Count int `json:"count"`
}

// DatasetSummary describes the active dataset.
type DatasetSummary struct {
	Count int `json:"count"`
}

// SaveQueryRequest names the working configuration being saved.
type SaveQueryRequest struct {
	Name string `json:"name"`
}

// QueryResult is the response of an executed query.
type QueryResult struct {
	Count int         `json:"count"`
	Rows  interface{} `json:"rows"`
}
