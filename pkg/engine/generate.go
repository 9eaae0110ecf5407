// Package engine assembles the release notes report: it runs the section
// builders in report order, drives the per-issue release note fetches, and
// accumulates the non-fatal diagnostics of a run.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goblinsan/relnotes-helper/pkg/htmldoc"
	"github.com/goblinsan/relnotes-helper/pkg/issues"
	"github.com/goblinsan/relnotes-helper/pkg/notes"
	"github.com/goblinsan/relnotes-helper/pkg/types"
)

// ErrBaselineMismatch reports disagreement between the summary's previous
// release and the one recorded in the bug list header. Generating against
// the wrong baseline would silently produce bogus release notes, so this is
// the one fatal precondition of the pipeline.
var ErrBaselineMismatch = errors.New("previous release mismatch between summary and bug list")

// Inputs collects the loaded input documents for a run.
type Inputs struct {
	Summary types.Summary
	BugList *issues.BugList
}

// Options configures the behavior of Generate.
type Options struct {
	// IssuePrefix is prepended to issue keys in links and headings.
	IssuePrefix string
	// FetchWorkers caps concurrent release note fetches. Values below 1
	// mean sequential fetching.
	FetchWorkers int
	// Logger receives progress diagnostics. Nil means silent.
	Logger *zap.Logger
}

// FetchError records one recovered per-issue failure.
type FetchError struct {
	Key string
	Err error
}

func (e FetchError) String() string {
	return fmt.Sprintf("unable to read or parse release note for issue %s: %v", e.Key, e.Err)
}

// Report accumulates the non-fatal diagnostics of a run. All sequences keep
// bug-list order.
type Report struct {
	IssuesListed  int
	NotesIncluded int
	MissingNotes  []types.Issue
	Errors        []FetchError
	Warnings      []string
}

func (r *Report) String() string {
	return fmt.Sprintf("Summary: %d issues listed, %d release notes included (%d missing, %d errors)",
		r.IssuesListed, r.NotesIncluded, len(r.MissingNotes), len(r.Errors))
}

// Generate assembles the report and returns it rendered as HTML along with
// the run diagnostics. A fatal error means no output was produced.
func Generate(ctx context.Context, in Inputs, fetcher notes.Fetcher, opts Options) (*Report, []byte, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	report := &Report{IssuesListed: len(in.BugList.Issues)}
	if err := checkBaseline(in, report, log); err != nil {
		return nil, nil, err
	}

	title := fmt.Sprintf("Release Notes for %s %s", in.Summary.Product, in.Summary.ReleaseID)
	doc := htmldoc.New(title)

	overview, err := copiedSection(in.Summary.Overview)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse overview fragment: %w", err)
	}
	doc.AttachSection(OverviewSection, overview)

	newFeatures, err := copiedSection(in.Summary.NewFeatures)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse new features fragment: %w", err)
	}
	doc.AttachSection(NewFeaturesSection, newFeatures)

	doc.AttachSection(BugFixesSection,
		buildBugFixes(in.Summary, in.BugList.Issues, opts.IssuePrefix))

	results := fetchNotes(ctx, in.BugList.Issues, fetcher, opts.FetchWorkers, log)
	doc.AttachSection(IssuesSection,
		buildIssues(in.Summary, in.BugList.Issues, results, opts.IssuePrefix, report))

	doc.AttachSection(BuildEnvironmentSection, buildEnvironment(in.Summary))

	verification, err := copiedSection(in.Summary.ReleaseVerification)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse release verification fragment: %w", err)
	}
	doc.AttachSection(ReleaseVerificationSection, verification)

	// Runs after every builder so tokens inside section content get
	// rewritten too, not just the shell.
	doc.Substitute(map[string]string{
		"releaseID":         in.Summary.ReleaseID,
		"previousReleaseID": in.Summary.PreviousReleaseID,
		"branch":            in.Summary.Branch,
	})

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return nil, nil, fmt.Errorf("failed to render report: %w", err)
	}

	log.Info("report assembled",
		zap.Int("issues", report.IssuesListed),
		zap.Int("notes", report.NotesIncluded),
		zap.Int("missing", len(report.MissingNotes)))
	return report, buf.Bytes(), nil
}

// checkBaseline verifies the bug list was generated against the previous
// release named in the summary. An absent header marker downgrades the check
// to a single warning.
func checkBaseline(in Inputs, report *Report, log *zap.Logger) error {
	marker := in.BugList.PreviousRelease
	if marker == "" {
		report.Warnings = append(report.Warnings,
			"bug list header carries no previous-release marker; skipped baseline sanity check")
		log.Warn("skipped baseline sanity check: no previous-release marker in bug list header")
		return nil
	}
	if marker != in.Summary.PreviousReleaseID {
		return fmt.Errorf("%w: %s != %s", ErrBaselineMismatch, in.Summary.PreviousReleaseID, marker)
	}
	return nil
}

// fetchNotes retrieves every attached release note, at most workers at a
// time. Each fetch is attempted exactly once. Results are indexed by issue
// position so downstream report order stays deterministic regardless of
// fetch completion order.
func fetchNotes(ctx context.Context, list []types.Issue, fetcher notes.Fetcher, workers int, log *zap.Logger) []noteResult {
	if workers < 1 {
		workers = 1
	}
	results := make([]noteResult, len(list))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, issue := range list {
		if !issue.HasReleaseNote() {
			continue
		}
		i, issue := i, issue
		g.Go(func() error {
			log.Debug("fetching release note", zap.String("key", issue.Key), zap.String("url", issue.NoteURL))
			note, err := fetcher.Fetch(ctx, issue)
			if err != nil {
				log.Warn("release note fetch failed", zap.String("key", issue.Key), zap.Error(err))
			}
			results[i] = noteResult{note: note, err: err}
			return nil
		})
	}
	// Per-issue failures are recorded, not returned, so Wait never errors.
	_ = g.Wait()
	return results
}
