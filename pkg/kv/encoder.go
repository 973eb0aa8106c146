package kv

import (
	"trashroute/pkg/routegen"

	"github.com/kelindar/binary"
)

// JobRecord is the persisted state of one generation job.
type JobRecord struct {
	ID       string
	UploadID string

	Status  string
	Step    string
	Message string
	Error   string

	// Preview is an encoded polyline of the (simplified) route, set when
	// the job completes.
	Preview string

	CreatedAt int64
	UpdatedAt int64

	HasStats bool
	Stats    routegen.Statistics
}

func encodeJob(rec JobRecord) ([]byte, error) {
	return binary.Marshal(&rec)
}

func decodeJob(bb []byte) (JobRecord, error) {
	var rec JobRecord
	err := binary.Unmarshal(bb, &rec)
	return rec, err
}
