package storage

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/JDeepLearn/faq-data-loader/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalDocument_Layout(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := &core.Document{
		ID:       "faq-644ffa3e",
		Type:     core.DocumentType,
		Category: "Account",
		Question: "How do I reset my password?",
		Answer:   "Use the reset link.",
		Vector:   []float32{0.5, 0.25},
		Meta: core.Meta{
			Provider:  "ibm",
			ModelName: "granite",
			ModelDim:  2,
			CreatedAt: now,
			IndexedAt: now,
		},
	}

	data, err := MarshalDocument(doc)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.NotContains(t, body, "id")
	assert.NotContains(t, body, "ID")
	assert.Equal(t, "faq", body["type"])
	assert.Len(t, body["question_vector"], 2)

	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(2), meta["model_dim"])
	assert.Equal(t, "2026-03-01T12:00:00Z", meta["created_at"])
	assert.Equal(t, meta["created_at"], meta["indexed_at"])

	decoded, err := UnmarshalDocument("faq-644ffa3e", data)
	require.NoError(t, err)
	assert.Equal(t, doc, decoded)
}

func TestMarshalDocument_OmitsMissingVector(t *testing.T) {
	data, err := MarshalDocument(&core.Document{ID: "faq-1", Type: core.DocumentType, Question: "q", Answer: "a"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "question_vector")
}

func TestUnmarshalDocument_Invalid(t *testing.T) {
	_, err := UnmarshalDocument("faq-1", []byte("{not json"))
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalVector(t *testing.T) {
	tests := []struct {
		name   string
		vector []float32
	}{
		{"empty", []float32{}},
		{"single", []float32{1.5}},
		{"mixed signs", []float32{-0.125, 0, 3.25, -7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalVector(tt.vector)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalVector(data)
			require.NoError(t, err)
			assert.Equal(t, tt.vector, decoded)
		})
	}
}

func TestMarshalVector_Size(t *testing.T) {
	vector := make([]float32, 1024)
	data := MarshalVector(vector)
	// two length bytes plus four bytes per element
	assert.Len(t, data, 2+4*1024)
}

func TestUnmarshalVector_Invalid(t *testing.T) {
	t.Run("empty data", func(t *testing.T) {
		_, err := UnmarshalVector([]byte{})
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})

	t.Run("truncated", func(t *testing.T) {
		data := MarshalVector([]float32{1, 2, 3})
		_, err := UnmarshalVector(data[:len(data)-2])
		assert.ErrorIs(t, err, ErrTruncatedData)
	})
}
