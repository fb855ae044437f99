package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	defer func(v, sha, ts string) {
		Version, GitSHA, BuildTime = v, sha, ts
	}(Version, GitSHA, BuildTime)

	Version = "1.2.0"
	GitSHA = "abc1234"
	BuildTime = "2026-08-25T10:00:00Z"
	assert.Equal(t, "warpfield 1.2.0 (abc1234, built 2026-08-25T10:00:00Z)", String())
}
