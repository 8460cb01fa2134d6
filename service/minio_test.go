package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zac-t-smith/restoration-intel/config"
)

func TestNewMinioArchive(t *testing.T) {
	archive, err := NewMinioArchive(&config.MinioConfig{
		Endpoint:   "localhost:9000",
		AccessKey:  "test",
		SecretKey:  "test",
		Bucket:     "reports",
		ExpireDays: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "reports", archive.bucket)
	assert.Equal(t, 72*time.Hour, archive.expiry)
}

func TestNewMinioArchiveInvalidEndpoint(t *testing.T) {
	_, err := NewMinioArchive(&config.MinioConfig{
		Endpoint: "http://localhost:9000/with/path",
		Bucket:   "reports",
	})
	assert.Error(t, err)
}
