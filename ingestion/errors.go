package ingestion

import "errors"

var (
	// ErrIdentifierRequired is returned when a document identifier is not provided.
	ErrIdentifierRequired = errors.New("identifier required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrBuilderRequired is returned when a document builder is not provided.
	ErrBuilderRequired = errors.New("document builder required")

	// ErrRepositoryRequired is returned when a repository is not provided.
	ErrRepositoryRequired = errors.New("repository required")

	// ErrProvisionerRequired is returned when WithIndex is given a nil provisioner.
	ErrProvisionerRequired = errors.New("index provisioner required")

	// ErrCanceled is wrapped by Run when the batch was stopped before every
	// record was processed.
	ErrCanceled = errors.New("ingestion canceled")
)
