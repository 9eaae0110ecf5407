package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/goblinsan/relnotes-helper/pkg/issues"
	"github.com/goblinsan/relnotes-helper/pkg/types"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate SUMMARY [BUG_LIST]",
	Short: "Validate the input files without generating a report",
	Long: `Validate a release summary YAML file for correctness: structure and required
fields. When a bug list is also given, its record grammar is checked and its
previous-release header is cross-checked against the summary.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read summary: %w", err)
		}

		var sum types.Summary
		if err := yaml.Unmarshal(raw, &sum); err != nil {
			return fmt.Errorf("invalid YAML: %w", err)
		}

		errs := validateSummary(sum)

		if len(args) == 2 {
			cfg := issues.Config{
				TrackerBase: viper.GetString("tracker-base"),
				IssuePrefix: viper.GetString("issue-prefix"),
			}
			list, err := issues.Load(args[1], cfg)
			if err != nil {
				errs = append(errs, err.Error())
			} else if list.PreviousRelease == "" {
				fmt.Println("WARNING: bug list header carries no previous-release marker")
			} else if list.PreviousRelease != sum.PreviousReleaseID {
				errs = append(errs, fmt.Sprintf("previous release mismatch between summary and bug list: %s != %s",
					sum.PreviousReleaseID, list.PreviousRelease))
			}
		}

		if len(errs) > 0 {
			fmt.Fprintf(os.Stderr, "Validation failed with %d error(s):\n", len(errs))
			for i, e := range errs {
				fmt.Fprintf(os.Stderr, "  %d. %s\n", i+1, e)
			}
			os.Exit(1)
		}

		fmt.Println("Inputs are valid.")
		return nil
	},
}

func validateSummary(sum types.Summary) []string {
	var errs []string

	required := []struct {
		field string
		value string
	}{
		{"product", sum.Product},
		{"releaseID", sum.ReleaseID},
		{"previousReleaseID", sum.PreviousReleaseID},
		{"branch", sum.Branch},
		{"overview", sum.Overview},
		{"newFeatures", sum.NewFeatures},
		{"releaseVerification", sum.ReleaseVerification},
		{"machine", sum.Machine},
		{"antVersion", sum.AntVersion},
		{"jdk1.4", sum.JDK14},
		{"java6", sum.Java6},
		{"compilers", sum.Compilers},
		{"jsr169", sum.JSR169},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Sprintf("%s is required", r.field))
		}
	}

	return errs
}
