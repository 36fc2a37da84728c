package importer

import (
	"github.com/docforge/ingest/internal/doc"
)

// Response is one node of the result tree. Its shape mirrors the
// parent/child structure discovered while processing: one nested
// response per child document, in discovery order. A node's status is
// independent of its children's.
type Response struct {
	Reference   string
	Status      Status
	Description string
	Err         *Error

	// Doc carries the processed document (with live content) for
	// accepted responses only.
	Doc *doc.Document

	Nested []*Response
}

func (r *Response) Accepted() bool { return r.Status == StatusSuccess }
func (r *Response) Rejected() bool { return r.Status == StatusRejected }
func (r *Response) Errored() bool  { return r.Status == StatusError }

// Walk visits r and every nested response depth-first.
func (r *Response) Walk(fn func(*Response)) {
	fn(r)
	for _, n := range r.Nested {
		n.Walk(fn)
	}
}

// Dispose releases every live content handle in the tree. Call it
// once the accepted documents have been consumed.
func (r *Response) Dispose() error {
	var first error
	r.Walk(func(n *Response) {
		if n.Doc != nil {
			if err := n.Doc.Dispose(); err != nil && first == nil {
				first = err
			}
			n.Doc = nil
		}
	})
	return first
}

// PostProcessor runs once per top-level import on the fully assembled
// response tree, after all recursion completes. Side-effecting only.
type PostProcessor interface {
	Process(root *Response) error
}
