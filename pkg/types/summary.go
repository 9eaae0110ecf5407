package types

// Summary defines the structure of the hand-filled release summary YAML file.
// The overview, newFeatures and releaseVerification fields hold HTML fragments
// that are copied into the report verbatim.
type Summary struct {
	Product           string `yaml:"product" json:"product"`
	ReleaseID         string `yaml:"releaseID" json:"releaseID"`
	PreviousReleaseID string `yaml:"previousReleaseID" json:"previousReleaseID"`
	Branch            string `yaml:"branch" json:"branch"`

	Overview            string `yaml:"overview" json:"overview"`
	NewFeatures         string `yaml:"newFeatures" json:"newFeatures"`
	ReleaseVerification string `yaml:"releaseVerification" json:"releaseVerification"`

	// Build environment facts.
	Machine    string `yaml:"machine" json:"machine"`
	AntVersion string `yaml:"antVersion" json:"antVersion"`
	JDK14      string `yaml:"jdk1.4" json:"jdk1.4"`
	Java6      string `yaml:"java6" json:"java6"`
	Compilers  string `yaml:"compilers" json:"compilers"`
	JSR169     string `yaml:"jsr169" json:"jsr169"`
	// OSGi is accepted for compatibility with older summary files but is not
	// rendered into the report.
	OSGi string `yaml:"osgi" json:"osgi"`
}
