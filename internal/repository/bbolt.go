package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/rohanverma/upq/internal/upload"
)

const (
	uploadsBucket  = "uploads"
	metadataBucket = "metadata"
	schemaVersion  = 1
)

// ErrUploadNotFound is returned when an upload cannot be found.
var ErrUploadNotFound = errors.New("upload not found")

// BboltRepository persists upload records in an embedded bbolt database.
type BboltRepository struct {
	db *bbolt.DB
}

// NewBboltRepository creates a new bbolt repository.
func NewBboltRepository(dbPath string) (*BboltRepository, error) {
	options := &bbolt.Options{
		Timeout: 1 * time.Second,
	}

	db, err := bbolt.Open(dbPath, 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &BboltRepository{
		db: db,
	}

	if err := repo.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// initialize sets up buckets and schema.
func (r *BboltRepository) initialize() error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(uploadsBucket))
		if err != nil {
			return fmt.Errorf("failed to create uploads bucket: %w", err)
		}

		metaBucket, err := tx.CreateBucketIfNotExists([]byte(metadataBucket))
		if err != nil {
			return fmt.Errorf("failed to create metadata bucket: %w", err)
		}

		versionBytes := []byte(fmt.Sprintf("%d", schemaVersion))

		err = metaBucket.Put([]byte("schema_version"), versionBytes)
		if err != nil {
			return fmt.Errorf("failed to store schema version: %w", err)
		}

		return nil
	})
}

// Save persists an upload to storage.
func (r *BboltRepository) Save(u *upload.Upload) error {
	if u == nil {
		return errors.New("cannot save nil upload")
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(uploadsBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", uploadsBucket)
		}

		data, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("failed to marshal upload: %w", err)
		}

		err = bucket.Put([]byte(u.GetID().String()), data)
		if err != nil {
			return fmt.Errorf("failed to save upload: %w", err)
		}

		return nil
	})
}

// Find retrieves an upload by ID.
func (r *BboltRepository) Find(id uuid.UUID) (*upload.Upload, error) {
	if id == uuid.Nil {
		return nil, errors.New("upload ID cannot be empty")
	}

	var data []byte

	err := r.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(uploadsBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", uploadsBucket)
		}

		data = bucket.Get([]byte(id.String()))
		if data == nil {
			return ErrUploadNotFound
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	u := &upload.Upload{}

	if err := json.Unmarshal(data, u); err != nil {
		return nil, fmt.Errorf("failed to unmarshal upload: %w", err)
	}

	return u, nil
}

// FindAll retrieves all uploads.
func (r *BboltRepository) FindAll() ([]*upload.Upload, error) {
	var uploads []*upload.Upload

	err := r.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(uploadsBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", uploadsBucket)
		}

		return bucket.ForEach(func(k, v []byte) error {
			u := &upload.Upload{}

			if err := json.Unmarshal(v, u); err != nil {
				return fmt.Errorf("failed to unmarshal upload: %w", err)
			}

			uploads = append(uploads, u)

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return uploads, nil
}

// Delete removes an upload.
func (r *BboltRepository) Delete(id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.New("upload ID cannot be empty")
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(uploadsBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", uploadsBucket)
		}

		if bucket.Get([]byte(id.String())) == nil {
			return ErrUploadNotFound
		}

		return bucket.Delete([]byte(id.String()))
	})
}

// Close closes the database.
func (r *BboltRepository) Close() error {
	return r.db.Close()
}
