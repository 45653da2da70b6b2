package model

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	ioutils "github.com/riuna/osu-downloader/internal/io"
)

// UnknownTitle is used when a beatmap set record carries no title.
const UnknownTitle = "Unknown Title"

// Decode errors for most-played entries. An entry that triggers one of these
// is recorded as an unidentified failure and never retried within the run.
var (
	// ErrMissingRecord means the entry has neither a beatmapset nor a
	// beatmap object.
	ErrMissingRecord = errors.New("entry has no beatmapset data")

	// ErrMissingID means the nested record carries no usable identifier.
	ErrMissingID = errors.New("entry has no beatmapset id")
)

// ID is a beatmap set identifier. The osu! API serializes it sometimes as a
// JSON number and sometimes as a numeric string, so it unmarshals from both.
type ID int64

// UnmarshalJSON accepts a JSON number, a quoted number, or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid beatmapset id %s: %w", string(data), err)
	}
	*id = ID(n)
	return nil
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// BeatmapSet is the resolved identity of one downloadable beatmap set.
type BeatmapSet struct {
	ID    ID
	Title string
}

// ArchiveName returns the output file name for the set's .osz archive,
// "{id} - {sanitized title}.osz".
func (s BeatmapSet) ArchiveName() string {
	return fmt.Sprintf("%d - %s.osz", s.ID, ioutils.SanitizeFileName(s.Title))
}

// setRecord is the nested object of a most-played entry. Depending on the
// endpoint revision the id lives under "id" or "beatmapset_id".
type setRecord struct {
	ID           ID     `json:"id"`
	BeatmapsetID ID     `json:"beatmapset_id"`
	Title        string `json:"title"`
}

// MostPlayedEntry is one record of the most-played listing. The set metadata
// normally lives under "beatmapset"; older responses nest it under "beatmap"
// instead, so both shapes are decoded and Resolve picks whichever is present.
type MostPlayedEntry struct {
	Beatmapset *setRecord `json:"beatmapset"`
	Beatmap    *setRecord `json:"beatmap"`
	PlayCount  int        `json:"count"`
}

// Resolve extracts the beatmap set identity from the entry. It returns
// ErrMissingRecord or ErrMissingID when the entry cannot identify a set;
// a missing title falls back to UnknownTitle.
func (e *MostPlayedEntry) Resolve() (BeatmapSet, error) {
	rec := e.Beatmapset
	if rec == nil {
		rec = e.Beatmap
	}
	if rec == nil {
		return BeatmapSet{}, ErrMissingRecord
	}

	id := rec.ID
	if id == 0 {
		id = rec.BeatmapsetID
	}
	if id == 0 {
		return BeatmapSet{}, ErrMissingID
	}

	title := rec.Title
	if title == "" {
		title = UnknownTitle
	}

	return BeatmapSet{ID: id, Title: title}, nil
}

// DownloadOptions are the four independent media-suppression toggles of the
// mirror's download endpoint. Each maps 1:1 to a boolean query parameter.
type DownloadOptions struct {
	NoHitsound   bool
	NoStoryboard bool
	NoBackground bool
	NoVideo      bool
}

// Query encodes the options as the mirror's lower-cased query parameters
// with literal "true"/"false" values.
func (o DownloadOptions) Query() url.Values {
	return url.Values{
		"nohitsound":   {strconv.FormatBool(o.NoHitsound)},
		"nostoryboard": {strconv.FormatBool(o.NoStoryboard)},
		"nobg":         {strconv.FormatBool(o.NoBackground)},
		"novideo":      {strconv.FormatBool(o.NoVideo)},
	}
}
