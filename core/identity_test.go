package core

import (
	"errors"
	"strings"
	"testing"
)

func TestContentID(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     string
	}{
		{"known digest", "abc", "faq-a9993e36"},
		{"password question", "How do I reset my password?", "faq-644ffa3e"},
		{"email question", "How do I update my email?", "faq-8e882fc5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContentID(tt.question)
			if got != tt.want {
				t.Errorf("ContentID(%q) = %q, want %q", tt.question, got, tt.want)
			}
			if again := ContentID(tt.question); again != got {
				t.Errorf("ContentID() not stable: %q vs %q", got, again)
			}
		})
	}
}

func TestContentID_Length(t *testing.T) {
	id := ContentID("any question at all")
	if !strings.HasPrefix(id, IDPrefix) {
		t.Fatalf("id %q missing prefix", id)
	}
	if len(id) != len(IDPrefix)+8 {
		t.Errorf("id %q should carry 8 hex characters", id)
	}
}

func TestNewIdentifier(t *testing.T) {
	faq := &FAQ{Question: "How do I reset my password?", Answer: "Go to settings."}

	t.Run("content addressed is pure", func(t *testing.T) {
		ident, err := NewIdentifier(ContentAddressed)
		if err != nil {
			t.Fatalf("NewIdentifier() error = %v", err)
		}
		id1, err := ident.Identify(faq)
		if err != nil {
			t.Fatalf("Identify() error = %v", err)
		}
		id2, _ := ident.Identify(&FAQ{Question: faq.Question, Answer: "different answer"})
		if id1 != id2 {
			t.Errorf("ids differ for the same question: %q vs %q", id1, id2)
		}
		if ident.Strategy() != ContentAddressed {
			t.Errorf("Strategy() = %v", ident.Strategy())
		}
	})

	t.Run("run addressed is fresh", func(t *testing.T) {
		ident, err := NewIdentifier(RunAddressed)
		if err != nil {
			t.Fatalf("NewIdentifier() error = %v", err)
		}
		id1, _ := ident.Identify(faq)
		id2, _ := ident.Identify(faq)
		if id1 == id2 {
			t.Errorf("run-addressed ids should differ, both %q", id1)
		}
		if !strings.HasPrefix(id1, IDPrefix) {
			t.Errorf("id %q missing prefix", id1)
		}
	})

	t.Run("blank question", func(t *testing.T) {
		for _, strategy := range []IDStrategy{ContentAddressed, RunAddressed} {
			ident, _ := NewIdentifier(strategy)
			_, err := ident.Identify(&FAQ{Question: "   "})
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("%v: expected ErrInvalidInput, got %v", strategy, err)
			}
		}
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, err := NewIdentifier(IDStrategy(42))
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestParseIDStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    IDStrategy
		wantErr bool
	}{
		{"content", ContentAddressed, false},
		{"", ContentAddressed, false},
		{"Run", RunAddressed, false},
		{"run-addressed", RunAddressed, false},
		{"random", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseIDStrategy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseIDStrategy(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseIDStrategy(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
