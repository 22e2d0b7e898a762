// Copyright 2026 JDeepLearn
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Field limits for FAQ records, counted in characters.
const (
	MaxQuestionLength = 300
	MaxAnswerLength   = 1000
)

// ValidateFAQ validates an input record according to domain rules.
//
// Validation rules:
//   - Question must not be blank and at most MaxQuestionLength characters
//   - Answer must not be blank and at most MaxAnswerLength characters
//   - Image and Link, when present, must be absolute http(s) URLs
//
// Category is free-form and not validated.
func ValidateFAQ(faq *FAQ) error {
	if faq == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidInput)
	}

	if IsBlank(faq.Question) {
		return fmt.Errorf("%w: question must not be blank", ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(faq.Question); n > MaxQuestionLength {
		return fmt.Errorf("%w: question has %d characters, max %d", ErrInvalidInput, n, MaxQuestionLength)
	}

	if IsBlank(faq.Answer) {
		return fmt.Errorf("%w: answer must not be blank", ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(faq.Answer); n > MaxAnswerLength {
		return fmt.Errorf("%w: answer has %d characters, max %d", ErrInvalidInput, n, MaxAnswerLength)
	}

	if err := ValidateURL(faq.Image); err != nil {
		return fmt.Errorf("%w: image: %w", ErrInvalidInput, err)
	}
	if err := ValidateURL(faq.Link); err != nil {
		return fmt.Errorf("%w: link: %w", ErrInvalidInput, err)
	}

	return nil
}

// ValidateURL accepts an empty string or an absolute http/https URL with a host.
func ValidateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q in %q", u.Scheme, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}

// IsBlank reports whether s is empty or only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
