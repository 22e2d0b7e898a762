package badger

// Key prefixes for different data types
const (
	documentPrefix    = "faqdoc"
	vectorCachePrefix = "vcache"
)

// makeDocumentKey generates a key for a document by id.
// Format: prefix:id
func makeDocumentKey(id string) []byte {
	return makeKey(documentPrefix, id)
}

// makeVectorCacheKey generates a key for a cached embedding.
// Format: prefix:key
func makeVectorCacheKey(key string) []byte {
	return makeKey(vectorCachePrefix, key)
}

func makeKey(prefix, suffix string) []byte {
	buf := make([]byte, len(prefix)+1+len(suffix))
	offset := copy(buf, prefix)
	buf[offset] = ':'
	copy(buf[offset+1:], suffix)
	return buf
}
