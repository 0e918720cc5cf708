package tool_test

import (
	"testing"

	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emptyEnv struct{}

func (emptyEnv) Get(string) (tool.Tool, bool) { return nil, false }

type addInput struct {
	Input int `json:"input"`
}

type addOutput struct {
	Output int `json:"output"`
}

func TestPureToolViaJSONInterface(t *testing.T) {
	addOne := tool.Pure(func(in addInput) addOutput { return addOutput{Output: in.Input + 1} })

	in := value.NewObject()
	in.Set("input", value.Int(4))

	out, err := addOne.Invoke(in, emptyEnv{})
	require.NoError(t, err)

	got, ok := out.Get("output")
	require.True(t, ok)
	n, _ := got.AsNumber()
	assert.Equal(t, int64(5), n.I)
}

func TestTypedViewRoundTrip(t *testing.T) {
	addOne := tool.Pure(func(in addInput) addOutput { return addOutput{Output: in.Input + 1} })
	typed := tool.NewTyped[addInput, addOutput](addOne)

	out, err := typed.Invoke(addInput{Input: 41}, emptyEnv{})
	require.NoError(t, err)
	assert.Equal(t, 42, out.Output)
}

func TestFallibleToolPropagatesError(t *testing.T) {
	boom := tool.Fallible(func(in addInput) (addOutput, error) {
		return addOutput{}, tool.NewErr("boom", "always fails")
	})

	_, err := boom.Invoke(value.NewObject(), emptyEnv{})
	require.Error(t, err)
	errVal := tool.AsValue(err)
	tag, _ := errVal.Get("error")
	s, _ := tag.AsString()
	assert.Equal(t, "boom", s)
}

func TestInputDecodeFailureReportedBeforeRunning(t *testing.T) {
	ran := false
	strict := tool.Pure(func(in addInput) addOutput {
		ran = true
		return addOutput{Output: in.Input}
	})

	_, err := strict.Invoke(value.String("not an object"), emptyEnv{})
	require.Error(t, err)
	assert.False(t, ran)
	errVal := tool.AsValue(err)
	tag, _ := errVal.Get("error")
	s, _ := tag.AsString()
	assert.Equal(t, "JSON input decode failed", s)
}
