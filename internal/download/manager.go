// Package download coordinates the batch download of fetched beatmap sets
// and the failure report written at the end of a run.
package download

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/riuna/osu-downloader/internal/config"
	httpclient "github.com/riuna/osu-downloader/internal/http"
	ioutils "github.com/riuna/osu-downloader/internal/io"
	"github.com/riuna/osu-downloader/internal/model"
)

// ReportFileName is the fixed name of the failure report, written to the
// output directory when at least one download failed.
const ReportFileName = "failed_downloads.txt"

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a batch progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// ItemDownloader downloads a single beatmap set archive. *mirror.Client is
// the production implementation; tests substitute their own so the batch
// policy can be exercised without network access.
type ItemDownloader interface {
	Download(ctx context.Context, set model.BeatmapSet, opts model.DownloadOptions, onProgress httpclient.ProgressFunc) (string, error)
}

// Summary describes the outcome of one batch run.
type Summary struct {
	Total      int
	Downloaded int
	Failed     int
	ReportPath string
}

// Manager downloads fetched beatmap sets one at a time, in fetched order,
// collecting failures and persisting the report at the end.
type Manager struct {
	settings   *config.Settings
	downloader ItemDownloader
	onProgress func(ProgressEvent)

	// OnItemStart, when set, is called before each download attempt with
	// the 1-based index, the batch size and the resolved set.
	OnItemStart func(index, total int, set model.BeatmapSet)

	// OnItemProgress, when set, receives byte progress of the current
	// download.
	OnItemProgress httpclient.ProgressFunc

	totalItems      int32
	downloadedItems int32
	failedItems     int32
}

// NewManager creates a batch download Manager.
func NewManager(settings *config.Settings, downloader ItemDownloader, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:   settings,
		downloader: downloader,
		onProgress: onProgress,
	}
}

// Progress returns the current item counts: downloads finished, failures
// recorded and total batch size. Safe to call from another goroutine while
// Run is in flight.
func (m *Manager) Progress() (downloaded, failed, total int32) {
	return atomic.LoadInt32(&m.downloadedItems), atomic.LoadInt32(&m.failedItems), atomic.LoadInt32(&m.totalItems)
}

// Run processes every entry in fetched order. Entries that cannot be
// identified are recorded as unidentified failures and skipped; identified
// entries are downloaded, with failures recorded by id. After each download
// attempt the manager sleeps the configured delay, including after the last
// one. If any failure was recorded the report file is written, overwriting
// previous content.
func (m *Manager) Run(ctx context.Context, entries []model.MostPlayedEntry, opts model.DownloadOptions) Summary {
	logger := config.GetLogger()

	total := len(entries)
	atomic.StoreInt32(&m.totalItems, int32(total))
	atomic.StoreInt32(&m.downloadedItems, 0)
	atomic.StoreInt32(&m.failedItems, 0)

	var failures model.FailureList
	downloaded := 0

	for i, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		index := i + 1

		set, err := entry.Resolve()
		if err != nil {
			logger.Warn().Int("index", index).Err(err).Msg("Skipping entry with missing beatmapset data")
			m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping entry %d/%d: %v", index, total, err), Level: LevelWarning})
			failures.RecordUnidentified()
			atomic.AddInt32(&m.failedItems, 1)
			continue
		}

		m.progress(ProgressEvent{Message: fmt.Sprintf("Downloading (%d/%d): %d - %s", index, total, set.ID, set.Title), Level: LevelInfo})
		if m.OnItemStart != nil {
			m.OnItemStart(index, total, set)
		}

		dest, err := m.downloader.Download(ctx, set, opts, m.OnItemProgress)
		if err != nil {
			logger.Error().Int64("beatmapset_id", int64(set.ID)).Str("title", set.Title).Err(err).Msg("Download failed")
			m.progress(ProgressEvent{Message: fmt.Sprintf("Failed %d - %s: %v", set.ID, set.Title, err), Level: LevelError})
			failures.Record(set.ID)
			atomic.AddInt32(&m.failedItems, 1)
		} else {
			m.progress(ProgressEvent{Message: "Saved " + filepath.Base(dest), Level: LevelSuccess})
			downloaded++
			atomic.AddInt32(&m.downloadedItems, 1)
		}

		// Rate limit delay, also after the last item.
		m.sleep(ctx)
	}

	summary := Summary{
		Total:      total,
		Downloaded: downloaded,
		Failed:     failures.Len(),
	}

	if !failures.Empty() {
		path := filepath.Join(m.settings.OutputDir, ReportFileName)
		if err := ioutils.WriteLines(path, failures.Lines()); err != nil {
			logger.Error().Str("path", path).Err(err).Msg("Could not write failure report")
			m.progress(ProgressEvent{Message: fmt.Sprintf("Could not write failure report: %v", err), Level: LevelError})
		} else {
			summary.ReportPath = path
			m.progress(ProgressEvent{Message: "Failed downloads saved to " + ReportFileName, Level: LevelWarning})
		}
	}

	return summary
}

func (m *Manager) sleep(ctx context.Context) {
	if m.settings.DownloadDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(m.settings.DownloadDelay):
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
