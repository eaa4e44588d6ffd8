package sqlite

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// dateLayout is the storage form for date-only columns.
const dateLayout = "2006-01-02"

func uuidText(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

func uuidOrNil(s string) uuid.UUID {
	if s == "" {
		return uuid.Nil
	}
	return uuid.FromStringOrNil(s)
}

func unix(t time.Time) int64 { return t.Unix() }

func fromUnix(sec int64) time.Time { return time.Unix(sec, 0).UTC() }
