// Package crawl runs a link scan: breadth-first discovery of a site's pages
// followed by concurrent validation of every reference found on them.
package crawl

import "github.com/fwojciec/linkscan"

// Stage identifies which half of a scan produced a progress event.
type Stage int

const (
	StageDiscover Stage = iota
	StageValidate
)

func (s Stage) String() string {
	switch s {
	case StageDiscover:
		return "discover"
	case StageValidate:
		return "validate"
	}
	return "unknown"
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressSkipped
	ProgressFinished
)

// ProgressEvent reports progress during a scan.
type ProgressEvent struct {
	Stage     Stage
	Type      ProgressType
	Completed int
	Total     int
	URL       string

	// Links is the number of references found on a discovered page.
	Links int

	// Queued is the number of pages waiting in the frontier.
	Queued int

	// Result is set for completed validation events.
	Result *linkscan.ValidationResult

	// Reason explains a skipped page.
	Reason string

	Error error
}

// ProgressFunc is a callback for reporting scan progress.
type ProgressFunc func(event ProgressEvent)

func (fn ProgressFunc) emit(event ProgressEvent) {
	if fn != nil {
		fn(event)
	}
}
