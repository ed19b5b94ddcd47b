package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFullVersion(t *testing.T) {
	origVersion, origCommit := version, commit
	t.Cleanup(func() { version, commit = origVersion, origCommit })

	version, commit = "v0.3.0", ""
	assert.Equal(t, "v0.3.0", GetFullVersion())

	commit = "1a2b3c4"
	assert.Equal(t, "v0.3.0 (1a2b3c4)", GetFullVersion())
	assert.Equal(t, "1a2b3c4", GetCommit())
}
