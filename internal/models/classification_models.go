package models

// Record is one input row: its position in the input, the comment text to
// classify, and every other column carried through untouched.
type Record struct {
	Index   int
	Comment string
	Meta    map[string]string
}

// Classification is the parsed engine output. All fields are optional; what
// actually comes back depends on the engine and the prompt.
type Classification struct {
	Sentiment  string   `json:"sentiment,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
}

// CacheEntry is one completed record as persisted to the resume cache, one
// JSON object per line. Classification is nil when the engine responded but
// the response was not parseable JSON; RawResponse always holds the verbatim
// response text.
type CacheEntry struct {
	Index          int               `json:"index"`
	Comment        string            `json:"comment"`
	RawResponse    string            `json:"raw_response"`
	Classification *Classification   `json:"classification,omitempty"`
	Meta           map[string]string `json:"meta,omitempty"`
}

// ResultRow is one entry of the final output array: a CacheEntry plus a
// failure marker for records that exhausted their retries.
type ResultRow struct {
	CacheEntry
	Error string `json:"error,omitempty"`
}
