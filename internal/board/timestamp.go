package board

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// TimestampKind identifica la representacion con la que llego un createdAt.
type TimestampKind int

const (
	TimestampMissing TimestampKind = iota
	TimestampISO8601
	TimestampEpochSeconds
	TimestampNative
)

// Timestamp es una union etiquetada: solo el campo correspondiente a Kind es valido.
type Timestamp struct {
	Kind    TimestampKind
	ISO     string
	Seconds int64
	Nanos   int64
	Native  time.Time
}

func ISO8601(s string) Timestamp { return Timestamp{Kind: TimestampISO8601, ISO: s} }

func EpochSeconds(seconds, nanos int64) Timestamp {
	return Timestamp{Kind: TimestampEpochSeconds, Seconds: seconds, Nanos: nanos}
}

func Native(t time.Time) Timestamp { return Timestamp{Kind: TimestampNative, Native: t} }

// isoLayouts replica la lectura de un navegador: fecha y hora sin zona es hora
// local, mientras que una fecha sola es medianoche UTC.
var isoLayouts = []struct {
	layout string
	loc    *time.Location
}{
	{layout: time.RFC3339Nano, loc: time.UTC},
	{layout: "2006-01-02T15:04:05", loc: time.Local},
	{layout: "2006-01-02 15:04:05", loc: time.Local},
	{layout: "2006-01-02", loc: time.UTC},
}

// Instant normaliza cualquier representacion a un instante comparable.
// Valores ausentes o ilegibles se resuelven a now, asi quedan como los mas recientes.
func (t Timestamp) Instant(now time.Time) time.Time {
	if instant, ok := t.resolve(); ok {
		return instant
	}
	return now
}

// Valid indica si el valor se puede normalizar sin recurrir a now.
func (t Timestamp) Valid() bool {
	_, ok := t.resolve()
	return ok
}

func (t Timestamp) resolve() (time.Time, bool) {
	switch t.Kind {
	case TimestampISO8601:
		s := strings.TrimSpace(t.ISO)
		for _, l := range isoLayouts {
			if parsed, err := time.ParseInLocation(l.layout, s, l.loc); err == nil {
				return parsed.UTC(), true
			}
		}
		return time.Time{}, false
	case TimestampEpochSeconds:
		return time.Unix(t.Seconds, t.Nanos).UTC(), true
	case TimestampNative:
		if t.Native.IsZero() {
			return time.Time{}, false
		}
		return t.Native.UTC(), true
	case TimestampMissing:
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

type epochObject struct {
	Seconds     *int64 `json:"seconds"`
	SecondsAlt  *int64 `json:"_seconds"`
	Nanos       int64  `json:"nanos"`
	Nanoseconds int64  `json:"nanoseconds"`
	NanosAlt    int64  `json:"_nanoseconds"`
}

// UnmarshalJSON acepta un string, un objeto con seconds (o _seconds) o null.
// Cualquier otra forma queda como TimestampMissing en lugar de fallar.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*t = Timestamp{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*t = ISO8601(s)
	case '{':
		var obj epochObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil
		}
		seconds := obj.Seconds
		if seconds == nil {
			seconds = obj.SecondsAlt
		}
		if seconds == nil {
			return nil
		}
		nanos := obj.Nanos
		if nanos == 0 {
			nanos = obj.Nanoseconds
		}
		if nanos == 0 {
			nanos = obj.NanosAlt
		}
		*t = EpochSeconds(*seconds, nanos)
	}
	return nil
}

// MarshalJSON escribe el valor como RFC3339; un valor ausente se escribe como null.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case TimestampISO8601:
		return json.Marshal(t.ISO)
	case TimestampEpochSeconds, TimestampNative:
		if instant, ok := t.resolve(); ok {
			return json.Marshal(instant.Format(time.RFC3339Nano))
		}
	}
	return []byte("null"), nil
}
