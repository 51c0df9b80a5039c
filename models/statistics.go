package models

// CountByKey is one bucket of a $group aggregation
type CountByKey struct {
	Key   string `json:"key" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// NationalStatistics is the aggregate view shown to national administrators
type NationalStatistics struct {
	TotalCases          int64        `json:"total_cases"`
	CasesByStatus       []CountByKey `json:"cases_by_status"`
	CasesByIncidentType []CountByKey `json:"cases_by_incident_type"`
	CasesByCity         []CountByKey `json:"cases_by_city"`
	OfficersByStatus    []CountByKey `json:"officers_by_status"`
	TotalEvidence       int64        `json:"total_evidence"`
	VerifiedEvidence    int64        `json:"verified_evidence"`
	InterviewsByStatus  []CountByKey `json:"interviews_by_status"`
}
