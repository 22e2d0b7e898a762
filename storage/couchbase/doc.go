// Package couchbase implements storage.Collection on a Couchbase
// collection through the gocb v2 SDK.
//
// Durability levels map one to one onto gocb.DurabilityLevel values, and
// gocb's document-exists, not-found and durability-impossible errors are
// translated to the storage sentinels so storage.Repository can apply its
// insert and downgrade rules.
package couchbase
