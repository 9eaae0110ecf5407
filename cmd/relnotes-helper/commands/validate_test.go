package commands

import (
	"testing"

	"github.com/goblinsan/relnotes-helper/pkg/types"
)

func validTestSummary() types.Summary {
	return types.Summary{
		Product:             "Derby",
		ReleaseID:           "10.7.1.0",
		PreviousReleaseID:   "10.6.2.1",
		Branch:              "10.7",
		Overview:            "<p>overview</p>",
		NewFeatures:         "<p>features</p>",
		ReleaseVerification: "<p>verification</p>",
		Machine:             "machine",
		AntVersion:          "ant",
		JDK14:               "jdk",
		Java6:               "java6",
		Compilers:           "javac",
		JSR169:              "jsr169",
	}
}

func TestValidateSummary_Valid(t *testing.T) {
	errs := validateSummary(validTestSummary())
	if len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateSummary_Empty(t *testing.T) {
	errs := validateSummary(types.Summary{})
	if len(errs) != 13 {
		t.Errorf("expected 13 errors for empty summary, got %d: %v", len(errs), errs)
	}
}

func TestValidateSummary_MissingRelease(t *testing.T) {
	sum := validTestSummary()
	sum.ReleaseID = ""
	errs := validateSummary(sum)
	found := false
	for _, e := range errs {
		if e == "releaseID is required" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected releaseID error, got %v", errs)
	}
}

func TestValidateSummary_OSGiOptional(t *testing.T) {
	sum := validTestSummary()
	sum.OSGi = ""
	if errs := validateSummary(sum); len(errs) != 0 {
		t.Errorf("osgi should be optional, got %v", errs)
	}
}
