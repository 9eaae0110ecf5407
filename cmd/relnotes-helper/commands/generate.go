package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/goblinsan/relnotes-helper/pkg/engine"
	"github.com/goblinsan/relnotes-helper/pkg/issues"
	"github.com/goblinsan/relnotes-helper/pkg/notes"
	"github.com/goblinsan/relnotes-helper/pkg/types"
)

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().Duration("fetch-timeout", notes.DefaultTimeout, "timeout for each release note fetch")
	generateCmd.Flags().Int("fetch-workers", 4, "maximum concurrent release note fetches")
	generateCmd.Flags().Bool("dry-run", false, "assemble the report but skip writing the output file")
}

var generateCmd = &cobra.Command{
	Use:   "generate SUMMARY BUG_LIST OUTPUT",
	Short: "Generate the release notes report",
	Long: `Generate the release notes report from a release summary YAML file and a
fixed-bugs list, writing the result to OUTPUT (typically RELEASE-NOTES.html).

For every issue in the bug list with an attached release note the generator
fetches the note document from the tracker, so make sure the tracker host is
reachable before running this command. It is recommended that you freshly
regenerate the bug list just before you run this tool.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		summaryPath, bugListPath, outputPath := args[0], args[1], args[2]

		raw, err := os.ReadFile(summaryPath)
		if err != nil {
			return fmt.Errorf("failed to read summary: %w", err)
		}
		var sum types.Summary
		if err := yaml.Unmarshal(raw, &sum); err != nil {
			return fmt.Errorf("failed to unmarshal summary YAML: %w", err)
		}
		if errs := validateSummary(sum); len(errs) > 0 {
			return fmt.Errorf("invalid summary: %s", strings.Join(errs, "; "))
		}

		cfg := issues.Config{
			TrackerBase: viper.GetString("tracker-base"),
			IssuePrefix: viper.GetString("issue-prefix"),
		}
		list, err := issues.Load(bugListPath, cfg)
		if err != nil {
			return err
		}

		timeout, _ := cmd.Flags().GetDuration("fetch-timeout")
		workers, _ := cmd.Flags().GetInt("fetch-workers")

		report, out, err := engine.Generate(cmd.Context(),
			engine.Inputs{Summary: sum, BugList: list},
			notes.NewHTTPFetcher(timeout),
			engine.Options{
				IssuePrefix:  cfg.IssuePrefix,
				FetchWorkers: workers,
				Logger:       logger,
			})
		if err != nil {
			return err
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if !dryRun {
			if err := writeFileAtomic(outputPath, out); err != nil {
				return err
			}
		}

		printDiagnostics(report)
		fmt.Println(report)
		return nil
	},
}

// writeFileAtomic stages the report next to the destination and renames it
// into place, so a failed run never leaves a partial report at the final path.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to stage output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

func printDiagnostics(report *engine.Report) {
	for _, w := range report.Warnings {
		fmt.Println("WARNING:", w)
	}
	if len(report.MissingNotes) > 0 {
		fmt.Println("The following issues still need release notes or the release notes provided are unreadable:")
		for _, issue := range report.MissingNotes {
			fmt.Printf("\t%s\t%s\n", issue.Key, issue.Title)
		}
	}
	for _, e := range report.Errors {
		fmt.Println(e)
	}
}
