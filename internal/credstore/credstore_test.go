package credstore

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/yaegashi/jupyterops/internal/terminal/terminalmock"
)

func TestLoad_MissingDir(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nope"))
	snap := s.Load(context.Background())
	assert.True(t, snap.DO.Empty())
	assert.True(t, snap.AWS.Empty())
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "config")
	s := New(dir)

	s.Save(ctx, DO, Fields{"token": "dop_v1_abc"})
	s.Save(ctx, AWS, Fields{"keyId": "AKIAEXAMPLE", "key": "secret"})

	snap := s.Load(ctx)
	assert.Equal(t, Fields{"token": "dop_v1_abc"}, snap.DO)
	assert.Equal(t, Fields{"keyId": "AKIAEXAMPLE", "key": "secret"}, snap.For(AWS))

	data, err := os.ReadFile(filepath.Join(dir, "do.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"dop_v1_abc"}`, string(data))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(dir, "aws.json"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestLoad_Malformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "do.json"), []byte("{not json"), 0o600))
	snap := New(dir).Load(context.Background())
	assert.True(t, snap.DO.Empty())
}

func TestSave_Unwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	// parent is a regular file, so MkdirAll fails.
	New(filepath.Join(blocker, "sub")).Save(context.Background(), DO, Fields{"token": "x"})
}

func TestShouldReuse(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	p := terminalmock.NewMockPrompter(ctrl)

	// Nothing cached: no question asked.
	reuse, err := ShouldReuse(ctx, p, Fields{})
	require.NoError(t, err)
	assert.False(t, reuse)

	p.EXPECT().Confirm(gomock.Any(), ReusePrompt).Return(true, nil)
	reuse, err = ShouldReuse(ctx, p, Fields{"token": "t"})
	require.NoError(t, err)
	assert.True(t, reuse)

	p.EXPECT().Confirm(gomock.Any(), ReusePrompt).Return(false, nil)
	reuse, err = ShouldReuse(ctx, p, Fields{"token": "t"})
	require.NoError(t, err)
	assert.False(t, reuse)
}
