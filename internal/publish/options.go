package publish

import (
	"fmt"
	"strings"

	"timemachine/internal/person"
	"timemachine/internal/services"
)

// Mode selects how existing pages are treated.
type Mode string

const (
	// ModeCreate always creates a new page per record.
	ModeCreate Mode = "create"
	// ModeUpdate patches the page recorded in the ledger and creates the rest.
	ModeUpdate Mode = "update"
)

// ErrorPolicy decides what happens after a record fails.
type ErrorPolicy string

const (
	OnErrorSkip ErrorPolicy = "skip"
	OnErrorHalt ErrorPolicy = "halt"
)

// Options configure one run.
type Options struct {
	SourcePath  string
	DatabaseID  string
	Mode        Mode
	DryRun      bool
	OnError     ErrorPolicy
	Concurrency int
}

func (o Options) normalized() (Options, error) {
	o.SourcePath = strings.TrimSpace(o.SourcePath)
	o.DatabaseID = strings.TrimSpace(o.DatabaseID)
	if o.SourcePath == "" {
		return o, services.Wrap(services.ErrConfiguration, "publish", "options", "no GEDCOM file given", nil)
	}
	switch o.Mode {
	case "":
		o.Mode = ModeCreate
	case ModeCreate, ModeUpdate:
	default:
		return o, services.Wrap(services.ErrConfiguration, "publish", "options", fmt.Sprintf("unknown mode %q", o.Mode), nil)
	}
	switch o.OnError {
	case "":
		o.OnError = OnErrorSkip
	case OnErrorSkip, OnErrorHalt:
	default:
		return o, services.Wrap(services.ErrConfiguration, "publish", "options", fmt.Sprintf("unknown error policy %q", o.OnError), nil)
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}
	return o, nil
}

// Stage names where a record failed.
type Stage string

const (
	StageBuild Stage = "build"
	StagePush  Stage = "push"
)

// Failure is a per-record error.
type Failure struct {
	GedcomRef string
	Stage     Stage
	Err       error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s (%s): %v", f.GedcomRef, f.Stage, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Summary reports what a run did.
type Summary struct {
	RunID      string
	DatabaseID string
	DryRun     bool
	Built      int
	Created    int
	Updated    int
	Skipped    int
	Failed     int
	Failures   []Failure
	// Records holds the built records. Pushed records carry their page id.
	Records []person.Record
}
