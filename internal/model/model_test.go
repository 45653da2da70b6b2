package model

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    ID
		wantErr bool
	}{
		{"number", `123`, 123, false},
		{"numeric string", `"456"`, 456, false},
		{"null", `null`, 0, false},
		{"non-numeric string", `"abc"`, 0, true},
		{"object", `{}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tt.data), &id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.data, err, tt.wantErr)
			}
			if !tt.wantErr && id != tt.want {
				t.Errorf("Unmarshal(%s) = %d, want %d", tt.data, id, tt.want)
			}
		})
	}
}

func TestMostPlayedEntry_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    BeatmapSet
		wantErr error
	}{
		{
			name: "beatmapset with id",
			raw:  `{"count": 42, "beatmapset": {"id": 1, "title": "Song A"}}`,
			want: BeatmapSet{ID: 1, Title: "Song A"},
		},
		{
			name: "beatmap fallback key",
			raw:  `{"beatmap": {"id": 2, "title": "Song B"}}`,
			want: BeatmapSet{ID: 2, Title: "Song B"},
		},
		{
			name: "beatmapset_id fallback field",
			raw:  `{"beatmapset": {"beatmapset_id": "3", "title": "Song C"}}`,
			want: BeatmapSet{ID: 3, Title: "Song C"},
		},
		{
			name: "missing title defaults",
			raw:  `{"beatmapset": {"id": 4}}`,
			want: BeatmapSet{ID: 4, Title: UnknownTitle},
		},
		{
			name:    "no nested record",
			raw:     `{"count": 10}`,
			wantErr: ErrMissingRecord,
		},
		{
			name:    "record without id",
			raw:     `{"beatmapset": {"title": "Song D"}}`,
			wantErr: ErrMissingID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entry MostPlayedEntry
			if err := json.Unmarshal([]byte(tt.raw), &entry); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			got, err := entry.Resolve()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBeatmapSet_ArchiveName(t *testing.T) {
	tests := []struct {
		set  BeatmapSet
		want string
	}{
		{BeatmapSet{ID: 39804, Title: "FREEDOM DiVE"}, "39804 - FREEDOM DiVE.osz"},
		{BeatmapSet{ID: 1, Title: `What: "is"? <this>`}, "1 - What is this.osz"},
	}

	for _, tt := range tests {
		if got := tt.set.ArchiveName(); got != tt.want {
			t.Errorf("ArchiveName() = %q, want %q", got, tt.want)
		}
	}
}

func TestDownloadOptions_Query(t *testing.T) {
	opts := DownloadOptions{NoStoryboard: true, NoVideo: true}
	q := opts.Query()

	want := map[string]string{
		"nohitsound":   "false",
		"nostoryboard": "true",
		"nobg":         "false",
		"novideo":      "true",
	}
	for key, value := range want {
		if got := q.Get(key); got != value {
			t.Errorf("Query()[%s] = %q, want %q", key, got, value)
		}
	}
	if len(q) != len(want) {
		t.Errorf("Query() has %d parameters, want %d", len(q), len(want))
	}
}

func TestFailureList(t *testing.T) {
	var f FailureList
	if !f.Empty() {
		t.Error("new FailureList should be empty")
	}

	f.Record(10)
	f.RecordUnidentified()
	f.Record(20)

	if f.Len() != 3 {
		t.Errorf("Len() = %d, want 3", f.Len())
	}
	if f.Empty() {
		t.Error("Empty() = true after recording failures")
	}

	want := []string{"10", "20"}
	if got := f.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() = %v, want %v", got, want)
	}
}

func TestFailureList_OnlyPlaceholders(t *testing.T) {
	var f FailureList
	f.RecordUnidentified()

	if f.Empty() {
		t.Error("placeholder failures still count as failures")
	}
	if lines := f.Lines(); len(lines) != 0 {
		t.Errorf("Lines() = %v, want none", lines)
	}
}
