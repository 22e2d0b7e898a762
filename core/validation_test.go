package core

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateFAQ(t *testing.T) {
	tests := []struct {
		name    string
		record  *FAQ
		wantErr bool
	}{
		{
			name:   "valid record",
			record: &FAQ{Question: "How do I reset my password?", Answer: "Go to settings."},
		},
		{
			name: "valid record with urls",
			record: &FAQ{
				Category: "account",
				Question: "Where is the guide?",
				Answer:   "Follow the link.",
				Image:    "https://cdn.example.com/guide.png",
				Link:     "http://example.com/guide",
			},
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: true,
		},
		{
			name:    "blank question",
			record:  &FAQ{Question: "  \t", Answer: "Answer"},
			wantErr: true,
		},
		{
			name:    "blank answer",
			record:  &FAQ{Question: "Question?", Answer: ""},
			wantErr: true,
		},
		{
			name:    "question too long",
			record:  &FAQ{Question: strings.Repeat("q", MaxQuestionLength+1), Answer: "Answer"},
			wantErr: true,
		},
		{
			name:   "question at limit counts runes",
			record: &FAQ{Question: strings.Repeat("é", MaxQuestionLength), Answer: "Answer"},
		},
		{
			name:    "answer too long",
			record:  &FAQ{Question: "Question?", Answer: strings.Repeat("a", MaxAnswerLength+1)},
			wantErr: true,
		},
		{
			name:    "relative image url",
			record:  &FAQ{Question: "Question?", Answer: "Answer", Image: "/img/a.png"},
			wantErr: true,
		},
		{
			name:    "unsupported link scheme",
			record:  &FAQ{Question: "Question?", Answer: "Answer", Link: "ftp://example.com/file"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFAQ(tt.record)

			if !tt.wantErr {
				if err != nil {
					t.Errorf("ValidateFAQ() error = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("ValidateFAQ() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank(" \n\t") {
		t.Error("whitespace should be blank")
	}
	if IsBlank(" x ") {
		t.Error("non-whitespace should not be blank")
	}
}
