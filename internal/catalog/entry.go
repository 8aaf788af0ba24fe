// Package catalog defines the mod catalog record and its wire decoding.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/modcatalog/internal/apperr"
)

// Entry is one mod record from the catalog asset.
type Entry struct {
	Name            string
	Stars           uint32
	UpdatedAtMillis float64
	Description     string
	Link            string
	Repo            string
	Wiki            *string
	LastCommitAgo   string
	IconPath        *string
}

// UpdatedAt converts the last-commit timestamp to a time.Time.
func (e Entry) UpdatedAt() time.Time {
	ms := uint64(e.UpdatedAtMillis)
	return time.Unix(int64(ms/1000), int64(ms%1000)*int64(time.Millisecond)).UTC()
}

// Icon returns the icon path and whether one is set. An empty path counts
// as unset.
func (e Entry) Icon() (string, bool) {
	if e.IconPath == nil || *e.IconPath == "" {
		return "", false
	}
	return *e.IconPath, true
}

// wireEntry mirrors the asset layout. Required keys are pointers so a
// missing key can be told apart from a zero value.
type wireEntry struct {
	Name     *string  `json:"name"`
	Stars    *uint32  `json:"stars"`
	DateTT   *float64 `json:"date_tt"`
	Desc     *string  `json:"desc"`
	Link     *string  `json:"link"`
	Repo     *string  `json:"repo"`
	Wiki     *string  `json:"wiki"`
	DeltaAgo *string  `json:"delta_ago"`
	IconRaw  *string  `json:"icon_raw"`
}

// Validate checks presence of every required key and the value invariants.
func (w *wireEntry) Validate() error {
	return validation.ValidateStruct(w,
		validation.Field(&w.Name, validation.NotNil, validation.Required),
		validation.Field(&w.Stars, validation.NotNil),
		validation.Field(&w.DateTT, validation.NotNil, validation.Min(0.0)),
		validation.Field(&w.Desc, validation.NotNil),
		validation.Field(&w.Link, validation.NotNil),
		validation.Field(&w.Repo, validation.NotNil),
		validation.Field(&w.DeltaAgo, validation.NotNil),
	)
}

func (w *wireEntry) entry() Entry {
	return Entry{
		Name:            *w.Name,
		Stars:           *w.Stars,
		UpdatedAtMillis: *w.DateTT,
		Description:     *w.Desc,
		Link:            *w.Link,
		Repo:            *w.Repo,
		Wiki:            w.Wiki,
		LastCommitAgo:   *w.DeltaAgo,
		IconPath:        w.IconRaw,
	}
}

// UnmarshalJSON decodes and validates a single record.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var w wireEntry
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if err := w.Validate(); err != nil {
		return err
	}
	*e = w.entry()
	return nil
}

// MarshalJSON encodes the record using the asset layout.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEntry{
		Name:     &e.Name,
		Stars:    &e.Stars,
		DateTT:   &e.UpdatedAtMillis,
		Desc:     &e.Description,
		Link:     &e.Link,
		Repo:     &e.Repo,
		Wiki:     e.Wiki,
		DeltaAgo: &e.LastCommitAgo,
		IconRaw:  e.IconPath,
	})
}

// Decode parses a catalog asset: a JSON array of records. Any shape or
// validation problem is reported as apperr.ErrDecode naming the offending
// record index.
func Decode(data []byte) ([]Entry, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrDecode, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: expected a JSON array", apperr.ErrDecode)
	}
	entries := make([]Entry, 0, len(raw))
	for i, r := range raw {
		if bytes.Equal(bytes.TrimSpace(r), []byte("null")) {
			return nil, fmt.Errorf("%w: entry %d: null record", apperr.ErrDecode, i)
		}
		var e Entry
		if err := json.Unmarshal(r, &e); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", apperr.ErrDecode, i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
