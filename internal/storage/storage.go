package storage

import "stakeScope/internal/model"

// RawLogSink receives raw fetched log records for traceability.
type RawLogSink interface {
	PutLogBatch(logs []model.RawLogRecord) error
}
