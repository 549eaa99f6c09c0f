package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmd(t *testing.T) {
	original := version
	t.Cleanup(func() { version = original })

	SetVersion("1.2.3")
	out, _, err := execute(t, "", "version")

	assert.NoError(t, err)
	assert.Equal(t, "promptdeck version 1.2.3\n", out)
}

func TestVersionCmd_DevByDefault(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)

	original := version
	t.Cleanup(func() { version = original })
	version = "dev"

	out, _, err := execute(t, "", "version")

	assert.NoError(t, err)
	assert.Contains(t, out, "promptdeck version dev")
}
