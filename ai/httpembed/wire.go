package httpembed

import (
	"encoding/json"
	"fmt"
)

// embedRequest is the body sent to the embedding service. Single-text
// services read "text"; batch services read "inputs".
type embedRequest struct {
	Text     string   `json:"text,omitempty"`
	Inputs   []string `json:"inputs"`
	Model    string   `json:"model,omitempty"`
	Provider string   `json:"provider,omitempty"`
}

func newEmbedRequest(texts []string, model, provider string) embedRequest {
	req := embedRequest{
		Inputs:   texts,
		Model:    model,
		Provider: provider,
	}
	if len(texts) == 1 {
		req.Text = texts[0]
	}
	return req
}

// embedResponse accepts the response shapes seen in the wild:
//
//	{"embedding": [...]}
//	{"vector": [...], "dim": 1024}
//	{"embeddings": [{"vector": [...]}], "embedding_dim": 1024}
//	{"embeddings": [[...], [...]]}
type embedResponse struct {
	Embedding    []float32       `json:"embedding"`
	Vector       []float32       `json:"vector"`
	Embeddings   json.RawMessage `json:"embeddings"`
	EmbeddingDim int             `json:"embedding_dim"`
	Dim          int             `json:"dim"`
}

type embeddingItem struct {
	Vector    []float32 `json:"vector"`
	Embedding []float32 `json:"embedding"`
}

// vectors extracts the embeddings carried by the response, in order.
func (r *embedResponse) vectors() ([][]float32, error) {
	if len(r.Embeddings) > 0 && string(r.Embeddings) != "null" {
		var items []embeddingItem
		if err := json.Unmarshal(r.Embeddings, &items); err == nil {
			out := make([][]float32, len(items))
			for i, item := range items {
				if len(item.Vector) > 0 {
					out[i] = item.Vector
				} else {
					out[i] = item.Embedding
				}
			}
			return out, nil
		}

		var raw [][]float32
		if err := json.Unmarshal(r.Embeddings, &raw); err != nil {
			return nil, fmt.Errorf("unrecognized embeddings field: %w", err)
		}
		return raw, nil
	}

	if len(r.Embedding) > 0 {
		return [][]float32{r.Embedding}, nil
	}
	if len(r.Vector) > 0 {
		return [][]float32{r.Vector}, nil
	}
	return nil, nil
}

// declaredDim returns the dimension the service claims, or 0.
func (r *embedResponse) declaredDim() int {
	if r.EmbeddingDim > 0 {
		return r.EmbeddingDim
	}
	return r.Dim
}
