// Package input decodes FAQ records from their JSON source.
package input

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/JDeepLearn/faq-data-loader/core"
)

// maxQuoted bounds how much of a question is echoed back in errors.
const maxQuoted = 60

// ReadFile reads and validates the records stored in the JSON file at path.
func ReadFile(path string) ([]core.FAQ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	faqs, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return faqs, nil
}

// Read decodes a JSON array of records from r. Unknown fields are ignored.
// Every record is checked with core.ValidateFAQ and the first invalid one
// aborts reading.
func Read(r io.Reader) ([]core.FAQ, error) {
	var faqs []core.FAQ
	if err := json.NewDecoder(r).Decode(&faqs); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: input is empty", core.ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: decode records: %w", core.ErrInvalidInput, err)
	}

	for i := range faqs {
		if err := core.ValidateFAQ(&faqs[i]); err != nil {
			return nil, fmt.Errorf("record %d (%q): %w", i, quote(faqs[i].Question), err)
		}
	}
	return faqs, nil
}

func quote(question string) string {
	runes := []rune(question)
	if len(runes) <= maxQuoted {
		return question
	}
	return string(runes[:maxQuoted]) + "..."
}
