package launcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand(t *testing.T) {
	t.Parallel()

	for in, want := range map[string][]string{
		"firefox %u":                           {"firefox"},
		"code --new-window %F":                 {"code", "--new-window"},
		`sh -c "echo 100%% done"`:              {"sh", "-c", "echo 100% done"},
		"/opt/app/bin/app --icon %i --name %c": {"/opt/app/bin/app", "--icon", "--name"},
		`"/opt/My App/run" --flag`:             {"/opt/My App/run", "--flag"},
	} {
		got, err := Command(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestCommandEmpty(t *testing.T) {
	t.Parallel()

	_, err := Command("  %U ")
	assert.ErrorIs(t, err, ErrEmptyExec)
}

func TestLaunchMissingProgram(t *testing.T) {
	t.Parallel()

	err := Launch("/nonexistent/hyprdash-test-binary %u")
	assert.Error(t, err)
}
