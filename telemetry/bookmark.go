package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkMergeBurst BookmarkType = "merge_burst"
	BookmarkClearing   BookmarkType = "clearing"
	BookmarkRefogged   BookmarkType = "refogged"
	BookmarkDownpour   BookmarkType = "downpour"
	BookmarkSteadyRain BookmarkType = "steady_rain"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark through logger.
func (b Bookmark) LogBookmark(logger *slog.Logger) {
	logger.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments in the rain.
type BookmarkDetector struct {
	maxCount int

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	lowestCoverage     float64
	saturatedWindows   int
	steadyWindowsCount int
}

// NewBookmarkDetector creates a detector with the given history size.
// maxCount is the configured droplet cap.
func NewBookmarkDetector(historySize, maxCount int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady rain detection
	}
	return &BookmarkDetector{
		maxCount:       maxCount,
		history:        make([]WindowStats, historySize),
		historySize:    historySize,
		lowestCoverage: 1,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		for _, check := range []func(WindowStats) *Bookmark{
			bd.checkMergeBurst,
			bd.checkClearing,
			bd.checkRefogged,
			bd.checkDownpour,
			bd.checkSteadyRain,
		} {
			if b := check(stats); b != nil {
				bookmarks = append(bookmarks, *b)
			}
		}
	}

	bd.addToHistory(stats)
	if stats.FogCoverage < bd.lowestCoverage {
		bd.lowestCoverage = stats.FogCoverage
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkMergeBurst(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Merges
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Merges) > avg*2 && stats.Merges >= 5 {
		return &Bookmark{
			Type:        BookmarkMergeBurst,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d merges is %.1fx average (%.1f)", stats.Merges, float64(stats.Merges)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkClearing(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var sum float64
	for _, h := range history {
		sum += h.FogCoverage
	}
	avg := sum / float64(len(history))

	if stats.FogCoverage < avg-0.15 {
		return &Bookmark{
			Type:        BookmarkClearing,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Fog coverage fell to %.2f from average %.2f", stats.FogCoverage, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkRefogged(stats WindowStats) *Bookmark {
	if bd.lowestCoverage >= 0.8 || stats.FogCoverage < 0.98 {
		return nil
	}
	low := bd.lowestCoverage
	bd.lowestCoverage = 1 // reset after triggering
	return &Bookmark{
		Type:        BookmarkRefogged,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Glass fogged back to %.2f from %.2f", stats.FogCoverage, low),
	}
}

func (bd *BookmarkDetector) checkDownpour(stats WindowStats) *Bookmark {
	if bd.maxCount <= 0 || stats.Active < bd.maxCount*9/10 {
		bd.saturatedWindows = 0
		return nil
	}
	bd.saturatedWindows++
	if bd.saturatedWindows == 3 { // trigger once per saturated stretch
		return &Bookmark{
			Type:        BookmarkDownpour,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d droplets at cap %d for 3 windows", stats.Active, bd.maxCount),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSteadyRain(stats WindowStats) *Bookmark {
	if stats.Active < 5 {
		bd.steadyWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	var sum float64
	for _, h := range recent {
		sum += float64(h.Active)
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		d := float64(h.Active) - mean
		variance += d * d
	}
	variance /= 4

	if mean > 0 && variance/(mean*mean) < 0.04 { // CV^2 < 0.04 means CV < 0.2
		bd.steadyWindowsCount++
	} else {
		bd.steadyWindowsCount = 0
	}

	if bd.steadyWindowsCount == 5 {
		return &Bookmark{
			Type:        BookmarkSteadyRain,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Steady rain with about %.0f droplets over 5+ windows", mean),
		}
	}
	return nil
}
