package server

import (
	"context"

	"github.com/crmarques/contentdesk/document"
)

// ContentStore is the remote JSON store a resource is loaded from and saved
// to. A missing record is reported by Fetch as found == false, not an error.
type ContentStore interface {
	Fetch(ctx context.Context, apiPath string) (Record, bool, error)
	Create(ctx context.Context, apiPath string, request SaveRequest) (Record, error)
	Replace(ctx context.Context, apiPath string, request SaveRequest) (Record, error)
	Delete(ctx context.Context, apiPath string, request DeleteRequest) error
}

// Record is the `{id, values}` envelope returned by the store. Values holds
// the document as its first element.
type Record struct {
	ID     string           `json:"id,omitempty" yaml:"id,omitempty"`
	Values []document.Value `json:"values" yaml:"values"`
}

// Document returns the first value of the record.
func (r Record) Document() (document.Value, bool) {
	if len(r.Values) == 0 {
		return nil, false
	}
	return r.Values[0], true
}

// Attachment is a local file sent as a multipart file part named Field.
type Attachment struct {
	Field       string `json:"field" yaml:"field"`
	FileName    string `json:"fileName" yaml:"fileName"`
	Path        string `json:"path" yaml:"path"`
	ContentType string `json:"contentType,omitempty" yaml:"contentType,omitempty"`
}

type SaveRequest struct {
	ID          string
	Document    document.Value
	Attachments []Attachment
}

type DeleteRequest struct {
	ID              string
	IncludeIDInBody bool
}
