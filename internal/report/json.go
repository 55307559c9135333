package report

import (
	"encoding/json"
	"io"
)

type jsonResult struct {
	Selector    string `json:"selector"`
	Specificity [4]int `json:"specificity"`
	Status      Status `json:"status"`
	Message     string `json:"message,omitempty"`
	File        string `json:"file,omitempty"`
	Line        int    `json:"line,omitempty"`
}

// WriteJSON renders every result as one flat array in input order. A file
// that failed outright becomes a single error entry with an empty
// selector.
func WriteJSON(w io.Writer, a Analysis) error {
	out := make([]jsonResult, 0)
	for _, f := range a.Files {
		if f.Err != nil {
			out = append(out, jsonResult{Status: StatusError, Message: f.Err.Error(), File: f.Path})
			continue
		}
		for _, r := range f.Results {
			out = append(out, jsonResult{
				Selector:    r.Selector,
				Specificity: r.Specificity.Tuple(),
				Status:      r.Status,
				Message:     r.Message,
				File:        r.File,
				Line:        r.Line,
			})
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
