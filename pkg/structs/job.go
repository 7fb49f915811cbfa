package structs

// SearchFacts are what the metadata search told us when the job was submitted.
// They're recorded once and drive the warnings in a job's message.
type SearchFacts struct {
	// TotalHits is the number of granules the search matched
	TotalHits int `json:"total_hits"`

	// MaxResults is the cap the caller asked for, if any
	MaxResults *int `json:"max_results,omitempty"`

	// SystemLimit is the operator cap in force at submission time
	SystemLimit int `json:"system_limit"`

	// MatchedCollections is the number of collections matching a short name;
	// when > 1 SelectedCollectionID is the one we picked.
	MatchedCollections   int    `json:"matched_collections,omitempty"`
	SelectedCollectionID string `json:"selected_collection_id,omitempty"`
}

// Job is the durable record of one transformation request.
type Job struct {
	ID     string `json:"id"`
	Owner  string `json:"owner"`
	Status Status `json:"status"`

	Progress int `json:"progress"`

	// TerminalMessage is set once, when the job reaches an end state
	TerminalMessage string `json:"terminal_message,omitempty"`

	Facts *SearchFacts `json:"facts,omitempty"`

	Links []*Link `json:"links"`

	NumInputGranules *int   `json:"num_input_granules,omitempty"`
	RequestURL       string `json:"request_url"`

	ETag string `json:"etag"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// Copy returns a deep copy of the job, so a mutation can be attempted & thrown away.
func (j *Job) Copy() *Job {
	out := *j
	if j.Facts != nil {
		facts := *j.Facts
		if j.Facts.MaxResults != nil {
			max := *j.Facts.MaxResults
			facts.MaxResults = &max
		}
		out.Facts = &facts
	}
	if j.NumInputGranules != nil {
		n := *j.NumInputGranules
		out.NumInputGranules = &n
	}
	out.Links = make([]*Link, len(j.Links))
	for i, l := range j.Links {
		out.Links[i] = l.Copy()
	}
	return &out
}

// SubmitRequest is the minimum needed to create a job.
type SubmitRequest struct {
	Owner            string       `json:"owner"`
	RequestURL       string       `json:"request_url"`
	NumInputGranules *int         `json:"num_input_granules,omitempty"`
	Facts            *SearchFacts `json:"facts,omitempty"`
}
