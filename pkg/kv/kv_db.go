package kv

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const (
	JOB_PENDING    = "pending"
	JOB_PROCESSING = "processing"
	JOB_COMPLETE   = "complete"
	JOB_ERROR      = "error"

	ARTIFACT_GPX    = "gpx"
	ARTIFACT_REPORT = "report"
)

var (
	ErrJobNotFound      = errors.New("job not found")
	ErrArtifactNotFound = errors.New("artifact not found")
)

// JobStore persists generation jobs and their output artifacts. Job
// records are binary-encoded; artifacts (GPX, report) are zstd-compressed
// blobs.
type JobStore struct {
	db *badger.DB
}

func NewJobStore(db *badger.DB) *JobStore {
	return &JobStore{db: db}
}

func jobKey(jobID string) []byte {
	return []byte("job:" + jobID)
}

func artifactKey(jobID, kind string) []byte {
	return []byte(fmt.Sprintf("artifact:%s:%s", jobID, kind))
}

func (s *JobStore) PutJob(rec JobRecord) error {
	encoded, err := encodeJob(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(jobKey(rec.ID), encoded)
	})
}

func (s *JobStore) GetJob(jobID string) (JobRecord, error) {
	var rec JobRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(jobKey(jobID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrJobNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			decoded, err := decodeJob(val)
			if err != nil {
				return err
			}
			rec = decoded
			return nil
		})
	})
	return rec, err
}

// UpdateJob applies mutate to the stored record inside one transaction.
func (s *JobStore) UpdateJob(jobID string, mutate func(*JobRecord)) error {
	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(jobKey(jobID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrJobNotFound
			}
			return err
		}
		var rec JobRecord
		err = item.Value(func(val []byte) error {
			decoded, err := decodeJob(val)
			if err != nil {
				return err
			}
			rec = decoded
			return nil
		})
		if err != nil {
			return err
		}
		mutate(&rec)
		encoded, err := encodeJob(rec)
		if err != nil {
			return err
		}
		return txn.Set(jobKey(jobID), encoded)
	})
}

func (s *JobStore) SaveArtifact(jobID, kind string, data []byte) error {
	compressed, err := compress(data)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(artifactKey(jobID, kind), compressed)
	})
}

func (s *JobStore) GetArtifact(jobID, kind string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(artifactKey(jobID, kind))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrArtifactNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			decompressed, err := decompress(val)
			if err != nil {
				return err
			}
			data = decompressed
			return nil
		})
	})
	return data, err
}
