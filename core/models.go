package core

import "time"

// DocumentType is the fixed type tag carried by every FAQ document.
// The search index routes documents into its type mapping by this value.
const DocumentType = "faq"

// Provenance defaults.
const (
	DefaultSource         = "faq-loader"
	DefaultContentVersion = "v1.0.0"
	DefaultSimilarity     = "cosine"
	DefaultDimensions     = 1024
)

// FAQ is a single question/answer record read from the input.
type FAQ struct {
	Category string `json:"category,omitempty"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Image    string `json:"image,omitempty"`
	Link     string `json:"link,omitempty"`
}

// Document is the persisted unit. ID is the storage key and is not part of
// the stored body.
type Document struct {
	ID       string    `json:"-"`
	Type     string    `json:"type"`
	Category string    `json:"category,omitempty"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	Image    string    `json:"image,omitempty"`
	Link     string    `json:"link,omitempty"`
	Vector   []float32 `json:"question_vector,omitempty"`
	Meta     Meta      `json:"meta"`
}

// HasVector reports whether the document carries an embedding.
func (d *Document) HasVector() bool {
	return len(d.Vector) > 0
}

// Meta records how and when a document was produced.
type Meta struct {
	Provider       string    `json:"provider"`
	ModelName      string    `json:"model_name"`
	ModelDim       int       `json:"model_dim"`
	Similarity     string    `json:"similarity"`
	Source         string    `json:"source"`
	ContentVersion string    `json:"content_version"`
	CreatedAt      time.Time `json:"created_at"`
	IndexedAt      time.Time `json:"indexed_at"`
}

// Provenance holds the static metadata stamped onto every document built in
// a run.
type Provenance struct {
	Provider       string
	ModelName      string
	ModelDim       int
	Similarity     string
	Source         string
	ContentVersion string
}
