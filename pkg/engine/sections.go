package engine

import (
	"fmt"

	"github.com/goblinsan/relnotes-helper/pkg/htmldoc"
	"github.com/goblinsan/relnotes-helper/pkg/notes"
	"github.com/goblinsan/relnotes-helper/pkg/types"
)

// Section titles, in report order.
const (
	OverviewSection            = "Overview"
	NewFeaturesSection         = "New Features"
	BugFixesSection            = "Bug Fixes"
	IssuesSection              = "Issues"
	BuildEnvironmentSection    = "Build Environment"
	ReleaseVerificationSection = "Verifying Releases"
)

// Column headlines for the fixed-bugs table.
const (
	issueIDHeadline     = "Issue Id"
	descriptionHeadline = "Description"
)

// copiedSection parses a summary HTML fragment for verbatim inclusion.
func copiedSection(fragment string) (*htmldoc.Fragment, error) {
	src, err := htmldoc.ParseFragment(fragment)
	if err != nil {
		return nil, err
	}
	f := htmldoc.NewFragment()
	f.AppendChildrenOf(src)
	return f, nil
}

// buildBugFixes renders the fixed-issues table, one row per issue in input
// order, each keyed by a hyperlink into the tracker.
func buildBugFixes(s types.Summary, list []types.Issue, prefix string) *htmldoc.Fragment {
	f := htmldoc.NewFragment()
	f.AddParagraph(fmt.Sprintf(
		"The following issues are addressed by %s release %s. These issues are not addressed in the preceding %s release.",
		s.Product, s.ReleaseID, s.PreviousReleaseID))

	table := f.AddTable(issueIDHeadline, descriptionHeadline)
	for _, issue := range list {
		table.AddRow(
			htmldoc.Link(issue.TrackerURL, prefix+issue.Key),
			htmldoc.Text(issue.Title))
	}
	return f
}

// buildIssues renders one subsection per fetched release note, with its own
// nested table of contents. Issues whose note could not be fetched or was
// never attached land in the report's missing-notes list instead.
func buildIssues(s types.Summary, list []types.Issue, results []noteResult, prefix string, report *Report) *htmldoc.Fragment {
	f := htmldoc.NewFragment()
	f.AddParagraph(fmt.Sprintf(
		"Compared with the previous release (%s), %s release %s introduces the following new features and incompatibilities. These merit your special attention.",
		s.PreviousReleaseID, s.Product, s.ReleaseID))
	toc := f.AddList()

	for i, issue := range list {
		switch {
		case issue.HasReleaseNote():
			res := results[i]
			if res.err != nil {
				report.Errors = append(report.Errors, FetchError{Key: issue.Key, Err: res.err})
				report.MissingNotes = append(report.MissingNotes, issue)
				continue
			}
			label := "Note for " + prefix + issue.Key

			f.AddRule()
			f.AddSubsection(toc, label)
			lead := htmldoc.Paragraph()
			lead.AppendChild(htmldoc.Text(label + ": "))
			htmldoc.AppendChildren(lead, res.note.Summary)
			f.Append(lead)
			f.AppendChildrenOf(res.note.Details)
			report.NotesIncluded++
		case issue.HasMissingReleaseNote():
			report.MissingNotes = append(report.MissingNotes, issue)
		}
	}
	return f
}

// buildEnvironment renders the build environment facts as a headlined list.
func buildEnvironment(s types.Summary) *htmldoc.Fragment {
	f := htmldoc.NewFragment()
	f.AddParagraph(fmt.Sprintf("%s release %s was built using the following environment:", s.Product, s.ReleaseID))

	list := f.AddList()
	list.AddHeadlinedItem("Branch", fmt.Sprintf("Source code came from the %s branch.", s.Branch))
	list.AddHeadlinedItem("Machine", s.Machine)
	list.AddHeadlinedItem("Ant", s.AntVersion)
	list.AddHeadlinedItem("JDK 1.4", s.JDK14)
	list.AddHeadlinedItem("Java 6", s.Java6)
	list.AddHeadlinedItem("Compiler", s.Compilers)
	list.AddHeadlinedItem("JSR 169", s.JSR169)
	return f
}

// noteResult pairs an issue position with its fetch outcome.
type noteResult struct {
	note *notes.Note
	err  error
}
