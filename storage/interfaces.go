package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/JDeepLearn/faq-data-loader/core"
)

// Collection is a key-value document collection.
// Implementations must be thread-safe and support concurrent access.
type Collection interface {
	// Insert stores doc under doc.ID.
	// Returns ErrDocumentExists if the key is already present.
	Insert(ctx context.Context, doc *core.Document, durability Durability) error

	// Upsert stores doc under doc.ID, replacing any existing document.
	Upsert(ctx context.Context, doc *core.Document, durability Durability) error

	// Get retrieves a document by id.
	// Returns ErrNotFound if the document doesn't exist.
	Get(ctx context.Context, id string) (*core.Document, error)

	// Close releases the collection's resources.
	Close() error
}

// Durability is the acknowledgement level required for a write.
// Levels are ordered from weakest to strongest.
type Durability int

const (
	DurabilityNone Durability = iota
	DurabilityMajority
	DurabilityMajorityAndPersistActive
	DurabilityPersistMajority
)

var durabilityNames = map[Durability]string{
	DurabilityNone:                     "none",
	DurabilityMajority:                 "majority",
	DurabilityMajorityAndPersistActive: "majority_and_persist_to_active",
	DurabilityPersistMajority:          "persist_to_majority",
}

// durabilityAliases are shorter names accepted by ParseDurability.
var durabilityAliases = map[string]Durability{
	"majority_and_persist_active": DurabilityMajorityAndPersistActive,
	"persist_majority":            DurabilityPersistMajority,
}

func (d Durability) String() string {
	if name, ok := durabilityNames[d]; ok {
		return name
	}
	return fmt.Sprintf("durability(%d)", int(d))
}

// ParseDurability parses a durability level name. Hyphens and underscores
// are interchangeable and case is ignored; an empty string is "none".
func ParseDurability(s string) (Durability, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if name == "" {
		return DurabilityNone, nil
	}
	for d, n := range durabilityNames {
		if n == name {
			return d, nil
		}
	}
	if d, ok := durabilityAliases[name]; ok {
		return d, nil
	}
	return DurabilityNone, fmt.Errorf("%w: unknown durability level %q", core.ErrInvalidInput, s)
}

// WriteMode selects how Repository.Persist writes a document.
type WriteMode int

const (
	// ModeUpsert replaces existing documents. Reruns converge on the same state.
	ModeUpsert WriteMode = iota
	// ModeInsert refuses to overwrite; existing documents are reported as
	// core.ErrAlreadyExists.
	ModeInsert
)

func (m WriteMode) String() string {
	if m == ModeInsert {
		return "insert"
	}
	return "upsert"
}

// ParseWriteMode parses "upsert" (or "") and "insert".
func ParseWriteMode(s string) (WriteMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "upsert":
		return ModeUpsert, nil
	case "insert":
		return ModeInsert, nil
	default:
		return ModeUpsert, fmt.Errorf("%w: unknown write mode %q", core.ErrInvalidInput, s)
	}
}
