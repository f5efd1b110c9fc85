package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandStructure(t *testing.T) {
	root := NewRootCmd()
	assert.Equal(t, "satchel", root.Use)

	want := []string{"serve", "seed", "list", "add", "get", "version"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	for _, flag := range []string{"config-dir", "data-dir", "verbose"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestVersionCommand(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
}

func TestGetRejectsNonNumericID(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"get", "alice"})
	assert.Error(t, root.Execute())
}
