package maincmd_test

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/kylelemons/godebug/diff"
	"github.com/mna/mainer"
	"github.com/mna/toolrun/internal/maincmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizePrintsOneLinePerToken(t *testing.T) {
	var buf, ebuf bytes.Buffer
	stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}

	c := &maincmd.Cmd{}
	err := c.Tokenize(context.Background(), stdio, []string{filepath.Join("testdata", "hello.tr")})
	require.NoError(t, err)
	assert.Empty(t, ebuf.String())
	assert.NotEmpty(t, buf.String())
	assert.Contains(t, buf.String(), "hello.tr")
}

func TestTokenizeMissingFileReportsError(t *testing.T) {
	var buf, ebuf bytes.Buffer
	stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}

	c := &maincmd.Cmd{}
	err := c.Tokenize(context.Background(), stdio, []string{filepath.Join("testdata", "nosuchfile.tr")})
	assert.Error(t, err)
	assert.NotEmpty(t, ebuf.String())
}

func TestParsePrintsParseTree(t *testing.T) {
	var buf, ebuf bytes.Buffer
	stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}

	c := &maincmd.Cmd{}
	err := c.Parse(context.Background(), stdio, []string{filepath.Join("testdata", "hello.tr")})
	require.NoError(t, err)
	assert.Empty(t, ebuf.String())
	assert.Contains(t, buf.String(), "Var")
}

func TestValidateDefaultsToRepl(t *testing.T) {
	c := &maincmd.Cmd{}
	c.SetArgs(nil)
	require.NoError(t, c.Validate())
}

func TestValidateTokenizeRequiresFiles(t *testing.T) {
	c := &maincmd.Cmd{}
	c.SetArgs([]string{"tokenize"})
	err := c.Validate()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "tokenize"))
}

func TestValidateTokenizeWithFilesOK(t *testing.T) {
	c := &maincmd.Cmd{}
	c.SetArgs([]string{"tokenize", filepath.Join("testdata", "hello.tr")})
	require.NoError(t, c.Validate())
}

func TestReplPrintsBannerAndExitsOnEOF(t *testing.T) {
	var buf, ebuf bytes.Buffer
	stdio := mainer.Stdio{Stdin: strings.NewReader(""), Stdout: &buf, Stderr: &ebuf}

	c := &maincmd.Cmd{BuildVersion: "0.0.0-test"}
	err := c.Repl(context.Background(), stdio, nil)
	require.NoError(t, err)
	assert.Empty(t, ebuf.String())

	banner, _, _ := strings.Cut(buf.String(), "\n")
	fields := strings.Fields(banner)
	require.Len(t, fields, 4) // toolrun 0.0.0-test (session <uuid>)

	sessionID, err := uuid.Parse(strings.TrimSuffix(fields[3], ")"))
	require.NoError(t, err)

	want := fmt.Sprintf("toolrun 0.0.0-test (session %s)", sessionID)
	if patch := diff.Diff(want, banner); patch != "" {
		t.Errorf("banner diff:\n%s", patch)
	}
}
