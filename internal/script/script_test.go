package script_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapetracker/internal/script"
)

func TestParseSkipsBlankLinesAndComments(t *testing.T) {
	src := "\n# a comment\nnew 2 3\n\nreshape 3 2\n"
	prog, err := script.Parse("t", src)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 2)
	assert.Equal(t, "new", prog.Statements[0].Op)
	assert.Equal(t, []int{2, 3}, prog.Statements[0].Args)
	assert.Equal(t, "reshape", prog.Statements[1].Op)
}

func TestParseAcceptsNegativeNumbers(t *testing.T) {
	prog, err := script.Parse("t", "new 5\nstride -1\n")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 2)
	assert.Equal(t, []int{-1}, prog.Statements[1].Args)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := script.Parse("t", "new 2 3\n@@@\n")
	assert.Error(t, err)
}

func TestRunExecutesMovementOpsInOrder(t *testing.T) {
	prog, err := script.Parse("t", "new 2 3\npermute 1 0\nflip 0\n")
	require.NoError(t, err)

	st, err := script.Run(prog)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, st.Shape())
}

func TestRunReshapeAcrossContiguous(t *testing.T) {
	prog, err := script.Parse("t", "new 6\nreshape 2 3\n")
	require.NoError(t, err)

	st, err := script.Run(prog)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, st.Shape())
	assert.Equal(t, []int{3, 1}, st.Strides())
}

func TestRunPadAndSimplify(t *testing.T) {
	prog, err := script.Parse("t", "new 3\npad 1 1\nsimplify\n")
	require.NoError(t, err)

	st, err := script.Run(prog)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, st.Shape())
	assert.True(t, st.NeedsValid())
}

func TestRunStridedConstructor(t *testing.T) {
	prog, err := script.Parse("t", "strided 5 3 10 4 1\n")
	require.NoError(t, err)

	st, err := script.Run(prog)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, st.Shape())
	assert.Equal(t, []int{10, 1}, st.Strides())
	assert.Equal(t, 5, st.Offset())
}

func TestRunRejectsScriptNotStartingWithNewOrStrided(t *testing.T) {
	prog, err := script.Parse("t", "reshape 2 3\n")
	require.NoError(t, err)

	_, err = script.Run(prog)
	assert.Error(t, err)
}

func TestRunRejectsUnknownOp(t *testing.T) {
	prog, err := script.Parse("t", "new 2\nfrobnicate 1\n")
	require.NoError(t, err)

	_, err = script.Run(prog)
	assert.Error(t, err)
}

func TestRunPropagatesContractViolationPanics(t *testing.T) {
	prog, err := script.Parse("t", "new 4\nshrink 0 5\n")
	require.NoError(t, err)

	assert.Panics(t, func() { script.Run(prog) })
}
