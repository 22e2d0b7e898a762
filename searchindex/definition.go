package searchindex

import (
	"fmt"
	"strings"

	"github.com/JDeepLearn/faq-data-loader/core"
)

// Definition defaults.
const (
	DefaultField      = "question_vector"
	DefaultSimilarity = core.DefaultSimilarity
	DefaultTypeField  = "type"
)

// similarities lists the vector similarity metrics the search service accepts.
var similarities = map[string]bool{
	"cosine":      true,
	"dot_product": true,
	"l2_norm":     true,
}

// Definition describes the vector index to provision.
type Definition struct {
	Name       string
	Bucket     string
	Scope      string
	Collection string
	// Field is the document field holding the vector. Default "question_vector".
	Field string
	// Dims is the vector dimension and must match the embedding model.
	Dims int
	// Similarity is "cosine" (default), "dot_product" or "l2_norm".
	Similarity string
	// TypeField is the document field used for type routing. Default "type".
	TypeField string
}

// WithDefaults returns a copy of d with empty optional fields filled in.
func (d Definition) WithDefaults() Definition {
	if d.Field == "" {
		d.Field = DefaultField
	}
	if d.Similarity == "" {
		d.Similarity = DefaultSimilarity
	}
	d.Similarity = strings.ToLower(d.Similarity)
	if d.TypeField == "" {
		d.TypeField = DefaultTypeField
	}
	return d
}

// Validate checks that the definition is complete.
func (d Definition) Validate() error {
	switch {
	case core.IsBlank(d.Name):
		return fmt.Errorf("%w: index name is required", core.ErrInvalidInput)
	case core.IsBlank(d.Bucket):
		return fmt.Errorf("%w: bucket is required", core.ErrInvalidInput)
	case core.IsBlank(d.Scope):
		return fmt.Errorf("%w: scope is required", core.ErrInvalidInput)
	case core.IsBlank(d.Collection):
		return fmt.Errorf("%w: collection is required", core.ErrInvalidInput)
	case d.Dims <= 0:
		return fmt.Errorf("%w: index dims must be greater than 0, got %d", core.ErrInvalidInput, d.Dims)
	}
	if d.Similarity != "" && !similarities[strings.ToLower(d.Similarity)] {
		return fmt.Errorf("%w: unsupported similarity %q", core.ErrInvalidInput, d.Similarity)
	}
	return nil
}

// indexPayload is the body of PUT /api/index/{name}.
type indexPayload struct {
	Type         string         `json:"type"`
	Name         string         `json:"name"`
	UUID         string         `json:"uuid"`
	SourceType   string         `json:"sourceType"`
	SourceName   string         `json:"sourceName"`
	SourceParams map[string]any `json:"sourceParams"`
	PlanParams   map[string]any `json:"planParams"`
	Params       indexParams    `json:"params"`
}

type indexParams struct {
	DocConfig docConfig    `json:"doc_config"`
	Mapping   indexMapping `json:"mapping"`
}

type docConfig struct {
	Mode      string `json:"mode"`
	TypeField string `json:"type_field"`
}

type indexMapping struct {
	DefaultAnalyzer string                 `json:"default_analyzer"`
	DefaultField    string                 `json:"default_field"`
	DefaultMapping  typeMapping            `json:"default_mapping"`
	IndexDynamic    bool                   `json:"index_dynamic"`
	StoreDynamic    bool                   `json:"store_dynamic"`
	Types           map[string]typeMapping `json:"types"`
}

type typeMapping struct {
	Enabled    bool                   `json:"enabled"`
	Dynamic    bool                   `json:"dynamic"`
	Properties map[string]typeMapping `json:"properties,omitempty"`
	Fields     []fieldMapping         `json:"fields,omitempty"`
}

type fieldMapping struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Dims       int    `json:"dims"`
	Similarity string `json:"similarity"`
	Index      bool   `json:"index"`
}

// payload builds the index definition body. d must have defaults applied.
func (d Definition) payload() indexPayload {
	return indexPayload{
		Type:         "fulltext-index",
		Name:         d.Name,
		SourceType:   "couchbase",
		SourceName:   d.Bucket,
		SourceParams: map[string]any{},
		PlanParams:   map[string]any{},
		Params: indexParams{
			DocConfig: docConfig{
				Mode:      "scope.collection.type_field",
				TypeField: d.TypeField,
			},
			Mapping: indexMapping{
				DefaultAnalyzer: "standard",
				DefaultField:    "_all",
				DefaultMapping:  typeMapping{Enabled: false},
				IndexDynamic:    true,
				StoreDynamic:    false,
				Types: map[string]typeMapping{
					d.Scope + "." + d.Collection: {
						Enabled: true,
						Dynamic: true,
						Properties: map[string]typeMapping{
							d.Field: {
								Enabled: true,
								Dynamic: false,
								Fields: []fieldMapping{{
									Name:       d.Field,
									Type:       "vector",
									Dims:       d.Dims,
									Similarity: d.Similarity,
									Index:      true,
								}},
							},
						},
					},
				},
			},
		},
	}
}
