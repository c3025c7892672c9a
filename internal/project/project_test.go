package project

import (
	"os"
	"path/filepath"
	"testing"

	"landmark-editor/internal/landmark"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRegistry(t *testing.T) *landmark.Registry {
	t.Helper()
	reg := landmark.NewRegistry(landmark.Options{Singletons: landmark.DefaultSingletons})
	for i := 0; i < 3; i++ {
		_, err := reg.CreatePoint("arm", float64(i), 0.5)
		require.NoError(t, err)
	}
	_, err := reg.CreatePoint("head", 3, 4)
	require.NoError(t, err)
	return reg
}

func TestSaveLoad(t *testing.T) {
	for _, name := range []string{"points.json", "points.yaml", "points.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			reg := sampleRegistry(t)
			f := FromRegistry(reg)
			f.SetImage(path, filepath.Join(filepath.Dir(path), "img", "frame.png"))
			require.NoError(t, f.Save(path))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, CurrentVersion, loaded.Version)
			assert.Equal(t, reg.Landmarks(), loaded.Landmarks)
			assert.Equal(t, filepath.Join("img", "frame.png"), loaded.ImagePath)
			assert.Equal(t, filepath.Join(filepath.Dir(path), "img", "frame.png"), loaded.GetImagePath(path))

			fresh := landmark.NewRegistry(landmark.Options{Singletons: landmark.DefaultSingletons})
			require.NoError(t, loaded.Apply(fresh))
			assert.Len(t, fresh.Segments(), 3)
		})
	}
}

func TestLoadRejectsGap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gap.json")
	data := `{"version":1,"landmarks":[{"label":"arm","index":0,"x":0,"y":0},{"label":"arm","index":2,"x":1,"y":1}]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	f, err := Load(path)
	require.NoError(t, err)
	err = f.Apply(landmark.NewRegistry(landmark.Options{}))
	assert.ErrorIs(t, err, landmark.ErrIndexGap)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "bad.json")

	future := filepath.Join(dir, "future.yaml")
	require.NoError(t, os.WriteFile(future, []byte("version: 9\n"), 0644))
	_, err = Load(future)
	assert.ErrorContains(t, err, "version 9")
}

func TestGetImagePathEmptyAndAbsolute(t *testing.T) {
	f := New()
	assert.Empty(t, f.GetImagePath("/tmp/x.json"))
	f.ImagePath = "/abs/frame.png"
	assert.Equal(t, "/abs/frame.png", f.GetImagePath("/tmp/x.json"))
}
