package segment

import (
	"encoding/json"
	"errors"
)

// Segment is one rule the user matches.
type Segment struct {
	Title string `json:"title"`
	ID    string `json:"_id"`
}

// Response is the result of a segment query.
//
// Available is false when the endpoint answered with a body that is not a
// JSON array of segments. An empty array yields Available true and no
// segments.
type Response struct {
	Available bool
	Segments  []Segment
}

var errMalformed = errors.New("segment: malformed response")

type wireSegment struct {
	Title *string `json:"title"`
	ID    *string `json:"_id"`
}

// parse decodes the endpoint body. Every element must carry string title
// and _id fields.
func parse(body []byte) ([]Segment, error) {
	var wire []wireSegment
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, err
	}
	if wire == nil {
		return nil, errMalformed
	}

	out := make([]Segment, 0, len(wire))
	for _, w := range wire {
		if w.Title == nil || w.ID == nil {
			return nil, errMalformed
		}
		out = append(out, Segment{Title: *w.Title, ID: *w.ID})
	}
	return out, nil
}
