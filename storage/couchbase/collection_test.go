package couchbase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/JDeepLearn/faq-data-loader/storage"
	"github.com/couchbase/gocb/v2"
	"github.com/stretchr/testify/assert"
)

func TestDurabilityLevel(t *testing.T) {
	tests := []struct {
		in   storage.Durability
		want gocb.DurabilityLevel
	}{
		{storage.DurabilityNone, gocb.DurabilityLevelNone},
		{storage.DurabilityMajority, gocb.DurabilityLevelMajority},
		{storage.DurabilityMajorityAndPersistActive, gocb.DurabilityLevelMajorityAndPersistOnMaster},
		{storage.DurabilityPersistMajority, gocb.DurabilityLevelPersistToMajority},
	}

	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, durabilityLevel(tt.in))
		})
	}
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"exists", gocb.ErrDocumentExists, storage.ErrDocumentExists},
		{"not found", gocb.ErrDocumentNotFound, storage.ErrNotFound},
		{"durability", gocb.ErrDurabilityImpossible, storage.ErrDurabilityImpossible},
		{"wrapped exists", fmt.Errorf("insert: %w", gocb.ErrDocumentExists), storage.ErrDocumentExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapError(tt.in)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.in)
		})
	}

	other := errors.New("timeout")
	assert.Equal(t, other, mapError(other))
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{ConnectionString: "couchbase://localhost", Bucket: "faq", Scope: "_default", Collection: "faqs"}
	assert.NoError(t, cfg.Validate())

	missing := cfg
	missing.Bucket = ""
	assert.Error(t, missing.Validate())

	missing = cfg
	missing.Collection = ""
	assert.Error(t, missing.Validate())
}

func TestOpen_InvalidConfig(t *testing.T) {
	_, err := Open(Config{}, nil)
	assert.Error(t, err)
}
