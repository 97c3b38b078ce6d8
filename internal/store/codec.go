package store

import (
	"database/sql"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Variable-length columns (tag lists, period series) are stored as msgpack blobs.
func encodeBlob(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func decodeBlob(b []byte, v any) error {
	if len(b) == 0 {
		return nil
	}
	return msgpack.Unmarshal(b, v)
}

func nullable(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func ptr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
