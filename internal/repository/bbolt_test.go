package repository_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohanverma/upq/internal/repository"
	"github.com/rohanverma/upq/internal/status"
	"github.com/rohanverma/upq/internal/upload"
)

func createTestRepository(t *testing.T) *repository.BboltRepository {
	t.Helper()

	repo, err := repository.NewBboltRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	t.Cleanup(func() { assert.NoError(t, repo.Close()) })

	return repo
}

func createTestUpload(t *testing.T) *upload.Upload {
	t.Helper()

	path := filepath.Join(t.TempDir(), "file.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 1024), 0o600))

	u, err := upload.NewUpload(path, &upload.Options{Folder: "inbox", Tags: []string{"t1"}})
	require.NoError(t, err)

	return u
}

func TestRepository_SaveAndFind(t *testing.T) {
	repo := createTestRepository(t)
	u := createTestUpload(t)

	require.NoError(t, repo.Save(u))

	found, err := repo.Find(u.Id)
	require.NoError(t, err)

	assert.Equal(t, u.Id, found.Id)
	assert.Equal(t, u.Path, found.Path)
	assert.Equal(t, u.Filename, found.Filename)
	assert.Equal(t, u.TotalSize, found.TotalSize)
	assert.Equal(t, status.Pending, found.Status)
	require.NotNil(t, found.Options)
	assert.Equal(t, "inbox", found.Options.Folder)
}

func TestRepository_SaveOverwrites(t *testing.T) {
	repo := createTestRepository(t)
	u := createTestUpload(t)

	require.NoError(t, repo.Save(u))

	u.Status = status.Completed
	u.Uploaded = u.TotalSize
	require.NoError(t, repo.Save(u))

	found, err := repo.Find(u.Id)
	require.NoError(t, err)

	assert.Equal(t, status.Completed, found.Status)
	assert.Equal(t, u.TotalSize, found.Uploaded)
}

func TestRepository_SaveNil(t *testing.T) {
	repo := createTestRepository(t)

	require.Error(t, repo.Save(nil))
}

func TestRepository_FindMissing(t *testing.T) {
	repo := createTestRepository(t)

	_, err := repo.Find(uuid.New())
	require.ErrorIs(t, err, repository.ErrUploadNotFound)

	_, err = repo.Find(uuid.Nil)
	require.Error(t, err)
}

func TestRepository_FindAll(t *testing.T) {
	repo := createTestRepository(t)

	uploads, err := repo.FindAll()
	require.NoError(t, err)
	assert.Empty(t, uploads)

	first := createTestUpload(t)
	second := createTestUpload(t)

	require.NoError(t, repo.Save(first))
	require.NoError(t, repo.Save(second))

	uploads, err = repo.FindAll()
	require.NoError(t, err)
	require.Len(t, uploads, 2)

	ids := map[uuid.UUID]bool{}
	for _, u := range uploads {
		ids[u.Id] = true
	}

	assert.True(t, ids[first.Id])
	assert.True(t, ids[second.Id])
}

func TestRepository_Delete(t *testing.T) {
	repo := createTestRepository(t)
	u := createTestUpload(t)

	require.NoError(t, repo.Save(u))
	require.NoError(t, repo.Delete(u.Id))

	_, err := repo.Find(u.Id)
	require.ErrorIs(t, err, repository.ErrUploadNotFound)

	require.ErrorIs(t, repo.Delete(u.Id), repository.ErrUploadNotFound)
}

func TestRepository_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "persist.db")

	repo, err := repository.NewBboltRepository(dbPath)
	require.NoError(t, err)

	u := createTestUpload(t)
	require.NoError(t, repo.Save(u))
	require.NoError(t, repo.Close())

	repo2, err := repository.NewBboltRepository(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, repo2.Close()) })

	found, err := repo2.Find(u.Id)
	require.NoError(t, err)
	assert.Equal(t, u.Filename, found.Filename)
}
