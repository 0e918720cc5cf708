package collaborators_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mna/toolrun/internal/collaborators"
	"github.com/mna/toolrun/internal/environment"
	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintWritesStringVerbatim(t *testing.T) {
	var buf bytes.Buffer
	p := collaborators.Print(&buf)

	out, err := p.Invoke(value.String("hello"), environment.NewEmpty())
	require.NoError(t, err)
	assert.True(t, out.IsNull())
	assert.Equal(t, "hello", buf.String())
}

func TestPrintFormatsNonStringValues(t *testing.T) {
	var buf bytes.Buffer
	p := collaborators.Print(&buf)

	_, err := p.Invoke(value.Int(42), environment.NewEmpty())
	require.NoError(t, err)
	assert.Equal(t, "42", buf.String())
}

func TestReadLineSplitsOnNewlineAndReportsEOF(t *testing.T) {
	r := collaborators.ReadLine(strings.NewReader("first\nsecond"))

	out, err := r.Invoke(value.Null, environment.NewEmpty())
	require.NoError(t, err)
	eof, _ := out.Get("eof")
	b, _ := eof.AsBool()
	assert.False(t, b)
	line, _ := out.Get("line")
	s, _ := line.AsString()
	assert.Equal(t, "first", s)

	out, err = r.Invoke(value.Null, environment.NewEmpty())
	require.NoError(t, err)
	eof, _ = out.Get("eof")
	b, _ = eof.AsBool()
	assert.True(t, b)
	line, _ = out.Get("line")
	s, _ = line.AsString()
	assert.Equal(t, "second", s)
}

func TestWriteBytesWritesRawBytes(t *testing.T) {
	var buf bytes.Buffer
	w := collaborators.WriteBytes(&buf)

	in := value.Array([]value.Value{value.Int(104), value.Int(105)})
	_, err := w.Invoke(in, environment.NewEmpty())
	require.NoError(t, err)
	assert.Equal(t, "hi", buf.String())
}

func TestWriteBytesRejectsOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	w := collaborators.WriteBytes(&buf)

	in := value.Array([]value.Value{value.Int(300)})
	_, err := w.Invoke(in, environment.NewEmpty())
	assert.Error(t, err)
}

func TestCompareValuesOrdersAcrossTypes(t *testing.T) {
	in := value.Array([]value.Value{value.Null, value.String("x")})
	out, err := collaborators.CompareValues.Invoke(in, environment.NewEmpty())
	require.NoError(t, err)
	n, _ := out.AsNumber()
	assert.Equal(t, int64(-1), n.I)
}

func TestSortDefaultOrdering(t *testing.T) {
	in := value.Array([]value.Value{value.Int(3), value.Int(1), value.Int(2)})
	out, err := collaborators.Sort.Invoke(in, environment.NewEmpty())
	require.NoError(t, err)

	arr, _ := out.AsArray()
	require.Len(t, arr, 3)
	for i, want := range []int64{1, 2, 3} {
		n, _ := arr[i].AsNumber()
		assert.Equal(t, want, n.I)
	}
}

func TestSortWithNamedCompareTool(t *testing.T) {
	dyn := environment.NewDynamic()
	dyn.Define("reverse-compare", tool.Fallible(func(pair []value.Value) (int64, error) {
		return -int64(value.Compare(pair[0], pair[1])), nil
	}))

	in := value.ObjectOf(map[string]value.Value{
		"array":        value.Array([]value.Value{value.Int(1), value.Int(3), value.Int(2)}),
		"compare_tool": value.String("reverse-compare"),
	})
	out, err := collaborators.Sort.Invoke(in, dyn)
	require.NoError(t, err)

	arr, _ := out.AsArray()
	require.Len(t, arr, 3)
	for i, want := range []int64{3, 2, 1} {
		n, _ := arr[i].AsNumber()
		assert.Equal(t, want, n.I)
	}
}

func TestSortMissingCompareToolErrors(t *testing.T) {
	in := value.ObjectOf(map[string]value.Value{
		"array":        value.Array([]value.Value{value.Int(1)}),
		"compare_tool": value.String("missing"),
	})
	_, err := collaborators.Sort.Invoke(in, environment.NewEmpty())
	assert.Error(t, err)
}
