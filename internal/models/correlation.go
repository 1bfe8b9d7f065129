package models

// Correlation statuses.
const (
	CorrelationStatusEnabled  = 0
	CorrelationStatusDisabled = 1
)

// Correlation is an event correlation rule.
type Correlation struct {
	CorrelationID string `json:"correlationid"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Status        int    `json:"status"`
}

// CorrelationIDsRequest is the body of the mass correlation actions.
type CorrelationIDsRequest struct {
	CorrelationIDs []string `json:"correlationids" binding:"required,min=1,dive,numeric"`
}
