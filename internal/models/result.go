package models

// ResumeMatch is a single matched resume with the keywords found in it.
type ResumeMatch struct {
	Filename        string   `json:"filename"`
	MatchedKeywords []string `json:"matched_keywords"`
	Score           int      `json:"score"`
}

// FilterResponse is the response for a filter request.
// MatchedResumes contains only resumes with at least one keyword match,
// sorted by descending score (filename ascending on ties).
type FilterResponse struct {
	Message          string        `json:"message"`
	MatchedResumes   []ResumeMatch `json:"matched_resumes"`
	TotalResumes     int           `json:"total_resumes"`
	KeywordsSearched []string      `json:"keywords_searched,omitempty"`
}

// UploadResponse is the response for an upload request.
type UploadResponse struct {
	Message string   `json:"message"`
	Files   []string `json:"files"`
	Count   int      `json:"count"`
}

// ListResponse is the response for a resume listing request.
type ListResponse struct {
	Resumes []string `json:"resumes"`
	Count   int      `json:"count"`
}
