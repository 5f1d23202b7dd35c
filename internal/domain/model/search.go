package model

// Citation is one search hit the service grounded the answer on.
type Citation struct {
	FileID   string  `json:"file_id"`
	Filename string  `json:"filename"`
	Score    float64 `json:"score"`
	Snippet  string  `json:"snippet,omitempty"`
}

// Answer is the result of a search-augmented response call.
type Answer struct {
	ResponseID string     `json:"response_id"`
	Text       string     `json:"text"`
	Citations  []Citation `json:"citations,omitempty"`
}
