package minio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFromURL(t *testing.T) {
	s := &EvidenceStore{bucket: "complaint-evidence"}

	key, ok := s.KeyFromURL("s3://complaint-evidence/complaints/c1/a1/photo.jpg")
	assert.True(t, ok)
	assert.Equal(t, "complaints/c1/a1/photo.jpg", key)

	_, ok = s.KeyFromURL("s3://other-bucket/complaints/c1/a1/photo.jpg")
	assert.False(t, ok)

	_, ok = s.KeyFromURL("https://example.com/file")
	assert.False(t, ok)
}
