package ingest

import (
	"encoding/json"

	"github.com/resumariner/engine/engine/domain"
	"github.com/resumariner/engine/engine/review"
)

// Result is the job result object persisted to the job store on
// completion: {resume, review?, metadata}. Review failure is recorded in
// metadata.review_error rather than failing the job (spec §4.G/§7).
type Result struct {
	Resume      domain.Resume
	Review      *review.Result
	ReviewError string
}

type resultMetadata struct {
	ReviewError string `json:"review_error,omitempty"`
}

type resultJSON struct {
	Resume   domain.Resume  `json:"resume"`
	Review   *review.Result `json:"review,omitempty"`
	Metadata resultMetadata `json:"metadata"`
}

// MarshalJSON renders the {resume, review?, metadata} shape stored in the
// job record's result field.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		Resume:   r.Resume,
		Review:   r.Review,
		Metadata: resultMetadata{ReviewError: r.ReviewError},
	})
}
