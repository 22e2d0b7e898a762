package core

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// IDPrefix is prepended to every document id.
const IDPrefix = "faq-"

// contentIDBytes is the number of SHA-1 bytes kept in a content-addressed id.
// Four bytes (eight hex characters) accept a small collision risk; widening
// it would change the id of every document already stored.
const contentIDBytes = 4

// IDStrategy selects how document ids are derived.
type IDStrategy int

const (
	// ContentAddressed derives the id from the question text, so reruns
	// address the same documents.
	ContentAddressed IDStrategy = iota + 1
	// RunAddressed generates a fresh id for every record of every run.
	RunAddressed
)

// String returns the configuration name of the strategy.
func (s IDStrategy) String() string {
	switch s {
	case ContentAddressed:
		return "content"
	case RunAddressed:
		return "run"
	default:
		return fmt.Sprintf("IDStrategy(%d)", int(s))
	}
}

// ParseIDStrategy parses "content" or "run".
func ParseIDStrategy(s string) (IDStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "content", "content-addressed", "":
		return ContentAddressed, nil
	case "run", "run-addressed":
		return RunAddressed, nil
	default:
		return 0, fmt.Errorf("%w: unknown id strategy %q", ErrInvalidInput, s)
	}
}

// Identifier derives document ids. Implementations are safe for concurrent use.
type Identifier interface {
	Identify(faq *FAQ) (string, error)
	Strategy() IDStrategy
}

// NewIdentifier returns the Identifier for the given strategy.
func NewIdentifier(strategy IDStrategy) (Identifier, error) {
	switch strategy {
	case ContentAddressed:
		return contentIdentifier{}, nil
	case RunAddressed:
		return runIdentifier{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown id strategy %d", ErrInvalidInput, strategy)
	}
}

// ContentID returns "faq-" followed by the hex of the first four bytes of
// SHA-1(question). The same question always yields the same id.
func ContentID(question string) string {
	sum := sha1.Sum([]byte(question))
	return IDPrefix + hex.EncodeToString(sum[:contentIDBytes])
}

// RunID returns "faq-" followed by a random UUID.
func RunID() string {
	return IDPrefix + uuid.NewString()
}

type contentIdentifier struct{}

func (contentIdentifier) Identify(faq *FAQ) (string, error) {
	if faq == nil || IsBlank(faq.Question) {
		return "", fmt.Errorf("%w: question required for content-addressed id", ErrInvalidInput)
	}
	return ContentID(faq.Question), nil
}

func (contentIdentifier) Strategy() IDStrategy { return ContentAddressed }

type runIdentifier struct{}

func (runIdentifier) Identify(faq *FAQ) (string, error) {
	if faq == nil || IsBlank(faq.Question) {
		return "", fmt.Errorf("%w: question required", ErrInvalidInput)
	}
	return RunID(), nil
}

func (runIdentifier) Strategy() IDStrategy { return RunAddressed }
