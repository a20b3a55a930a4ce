// Package parsing turns uploaded source files into titled, positioned
// chapters ready for analysis and production.
package parsing

import "context"

// Chapter is one positioned unit of parsed text.
type Chapter struct {
	Position int
	Title    string
	Body     string
}

// Document is the result of parsing a source file.
type Document struct {
	Title    string
	Author   string
	Chapters []Chapter
}

// Parser extracts a document from a source file on disk.
type Parser interface {
	Parse(ctx context.Context, sourcePath string) (*Document, error)
}
