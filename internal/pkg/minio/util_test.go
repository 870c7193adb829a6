package minio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicURL(t *testing.T) {
	cases := []struct {
		endpoint string
		want     string
	}{
		{"cdn.example.com", "https://cdn.example.com/builder/tools/a.jpg"},
		{"http://localhost:9000/", "http://localhost:9000/builder/tools/a.jpg"},
		{"https://s3.example.com", "https://s3.example.com/builder/tools/a.jpg"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, PublicURL(c.endpoint, "builder", "/tools/a.jpg"))
	}
}
