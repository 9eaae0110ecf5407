// Package issues loads the fixed-bugs list generated by the issue tracker
// report tooling ahead of a release.
package issues

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goblinsan/relnotes-helper/pkg/types"
)

// prevReleaseMarker is the header comment recording the baseline release the
// list was generated against.
const prevReleaseMarker = "// Previous release:"

// noteMissingField marks a record whose issue was flagged as needing a
// release note that was never attached.
const noteMissingField = "missing"

// Config resolves tracker addresses for loaded issues.
type Config struct {
	// TrackerBase is the tracker root URL, e.g. "https://issues.apache.org/jira".
	TrackerBase string
	// IssuePrefix is the project key prefix, e.g. "DERBY-".
	IssuePrefix string
}

// BugList is a parsed fixed-bugs report. Issues keep file order.
type BugList struct {
	Issues []types.Issue
	// PreviousRelease is the baseline recorded in the report header, or the
	// empty string when the header carries no marker line.
	PreviousRelease string
}

// Load parses the bug-list file at path. Lines starting with "//" are header
// comments; every other non-blank line is one tab-separated issue record:
//
//	KEY <TAB> TITLE <TAB> FIX_VERSIONS <TAB> NOTE
//
// where FIX_VERSIONS is a comma-separated list and NOTE is an attachment id,
// the literal "missing", or empty.
func Load(path string, cfg Config) (*BugList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bug list: %w", err)
	}
	defer f.Close()

	list := &BugList{}
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if strings.HasPrefix(line, prevReleaseMarker) {
			list.PreviousRelease = strings.TrimSpace(strings.TrimPrefix(line, prevReleaseMarker))
			continue
		}
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "//") {
			continue
		}
		issue, err := parseRecord(line, cfg)
		if err != nil {
			return nil, fmt.Errorf("bug list line %d: %w", lineno, err)
		}
		list.Issues = append(list.Issues, issue)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bug list: %w", err)
	}
	return list, nil
}

func parseRecord(line string, cfg Config) (types.Issue, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 4 {
		return types.Issue{}, fmt.Errorf("expected 4 tab-separated fields, got %d", len(fields))
	}

	key := strings.TrimSpace(fields[0])
	if key == "" {
		return types.Issue{}, errors.New("empty issue key")
	}
	title := strings.TrimSpace(fields[1])
	if title == "" {
		return types.Issue{}, fmt.Errorf("issue %s: empty title", key)
	}

	var fixVersions []string
	for _, v := range strings.Split(fields[2], ",") {
		if v = strings.TrimSpace(v); v != "" {
			fixVersions = append(fixVersions, v)
		}
	}

	issue := types.Issue{
		Key:         key,
		Title:       title,
		FixVersions: fixVersions,
		TrackerURL:  fmt.Sprintf("%s/browse/%s%s", cfg.TrackerBase, cfg.IssuePrefix, key),
	}

	switch note := strings.TrimSpace(fields[3]); note {
	case "":
		issue.Status = types.NoteNone
	case noteMissingField:
		issue.Status = types.NoteMissing
	default:
		issue.Status = types.NoteAttached
		issue.NoteURL = fmt.Sprintf("%s/secure/attachment/%s/releaseNote.html", cfg.TrackerBase, note)
	}
	return issue, nil
}
