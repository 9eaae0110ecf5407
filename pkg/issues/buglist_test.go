package issues

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goblinsan/relnotes-helper/pkg/types"
)

var testConfig = Config{
	TrackerBase: "https://issues.example.org/jira",
	IssuePrefix: "DERBY-",
}

func writeBugList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixedBugsList.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write bug list: %v", err)
	}
	return path
}

func TestLoad_FullReport(t *testing.T) {
	path := writeBugList(t, ""+
		"// Fixed bugs report\n"+
		"// Previous release: 10.6.2.1\n"+
		"\n"+
		"100\tFix X\t10.7.1.0\t12345\n"+
		"200\tFix Y\t10.7.1.0,10.6.2.2\tmissing\n"+
		"300\tFix Z\t10.7.1.0\t\n")

	list, err := Load(path, testConfig)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if list.PreviousRelease != "10.6.2.1" {
		t.Errorf("expected previous release 10.6.2.1, got %q", list.PreviousRelease)
	}
	if len(list.Issues) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(list.Issues))
	}

	first := list.Issues[0]
	if first.Key != "100" || first.Title != "Fix X" {
		t.Errorf("unexpected first issue: %+v", first)
	}
	if first.Status != types.NoteAttached {
		t.Errorf("expected first issue to have an attached note, got %v", first.Status)
	}
	if first.TrackerURL != "https://issues.example.org/jira/browse/DERBY-100" {
		t.Errorf("unexpected tracker URL: %s", first.TrackerURL)
	}
	if first.NoteURL != "https://issues.example.org/jira/secure/attachment/12345/releaseNote.html" {
		t.Errorf("unexpected note URL: %s", first.NoteURL)
	}

	second := list.Issues[1]
	if second.Status != types.NoteMissing {
		t.Errorf("expected second issue to have a missing note, got %v", second.Status)
	}
	if len(second.FixVersions) != 2 {
		t.Errorf("expected 2 fix versions, got %v", second.FixVersions)
	}

	third := list.Issues[2]
	if third.Status != types.NoteNone {
		t.Errorf("expected third issue to need no note, got %v", third.Status)
	}
	if third.NoteURL != "" {
		t.Errorf("expected empty note URL, got %s", third.NoteURL)
	}
}

func TestLoad_NoPreviousReleaseMarker(t *testing.T) {
	path := writeBugList(t, "100\tFix X\t10.7.1.0\t\n")

	list, err := Load(path, testConfig)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if list.PreviousRelease != "" {
		t.Errorf("expected empty previous release, got %q", list.PreviousRelease)
	}
	if len(list.Issues) != 1 {
		t.Errorf("expected 1 issue, got %d", len(list.Issues))
	}
}

func TestLoad_MalformedRecord(t *testing.T) {
	path := writeBugList(t, "100\tFix X\n")

	if _, err := Load(path, testConfig); err == nil {
		t.Fatal("expected error for record with wrong field count")
	}
}

func TestLoad_EmptyKey(t *testing.T) {
	path := writeBugList(t, "\tFix X\t10.7.1.0\t\n")

	if _, err := Load(path, testConfig); err == nil {
		t.Fatal("expected error for record with empty key")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt"), testConfig); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_PreservesFileOrder(t *testing.T) {
	path := writeBugList(t, ""+
		"// Previous release: 1.0\n"+
		"300\tThird\t2.0\t\n"+
		"100\tFirst\t2.0\t\n"+
		"200\tSecond\t2.0\t\n")

	list, err := Load(path, testConfig)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []string{"300", "100", "200"}
	for i, key := range want {
		if list.Issues[i].Key != key {
			t.Errorf("issue %d: expected key %s, got %s", i, key, list.Issues[i].Key)
		}
	}
}
