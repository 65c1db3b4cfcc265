package osutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockPathProvider is a mock implementation for testing.
type MockPathProvider struct {
	UserConfigDirFn func() (string, error)
	MkdirAllFn      func(path string, perm os.FileMode) error
}

func (m *MockPathProvider) UserConfigDir() (string, error) {
	if m.UserConfigDirFn != nil {
		return m.UserConfigDirFn()
	}
	return "", nil
}

func (m *MockPathProvider) MkdirAll(path string, perm os.FileMode) error {
	if m.MkdirAllFn != nil {
		return m.MkdirAllFn(path, perm)
	}
	return nil
}

func TestDefaultPathProvider_MkdirAll(t *testing.T) {
	p := DefaultPathProvider{}
	testDir := filepath.Join(t.TempDir(), "test", "nested", "dir")

	require.NoError(t, p.MkdirAll(testDir, 0755))

	info, err := os.Stat(testDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSetProviderAndReset(t *testing.T) {
	defer ResetProvider()

	mock := &MockPathProvider{
		UserConfigDirFn: func() (string, error) { return "/mock/config", nil },
	}
	SetProvider(mock)
	assert.Same(t, mock, Provider)

	ResetProvider()
	_, ok := Provider.(DefaultPathProvider)
	assert.True(t, ok, "ResetProvider did not reset to DefaultPathProvider")
}

func TestAppDir(t *testing.T) {
	defer ResetProvider()
	base := t.TempDir()
	SetProvider(&MockPathProvider{
		UserConfigDirFn: func() (string, error) { return base, nil },
		MkdirAllFn:      os.MkdirAll,
	})

	dir, err := AppDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, AppName), dir)
	assert.DirExists(t, dir)

	file, err := AppFile("session.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, AppName, "session.json"), file)
}

func TestAppDir_Errors(t *testing.T) {
	expectedErr := errors.New("mock error")

	tests := []struct {
		name     string
		provider *MockPathProvider
	}{
		{
			name: "user config dir fails",
			provider: &MockPathProvider{
				UserConfigDirFn: func() (string, error) { return "", expectedErr },
			},
		},
		{
			name: "mkdir fails",
			provider: &MockPathProvider{
				UserConfigDirFn: func() (string, error) { return "/somewhere", nil },
				MkdirAllFn:      func(string, os.FileMode) error { return expectedErr },
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer ResetProvider()
			SetProvider(tt.provider)

			_, err := AppDir()
			assert.ErrorIs(t, err, expectedErr)

			_, err = AppFile("x")
			assert.ErrorIs(t, err, expectedErr)
		})
	}
}
