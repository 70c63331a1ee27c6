package api

const (
	DefaultManifestFilename = ".meta-cnc.yaml"
	DefaultSnippetsDir      = "snippets"

	TypeREST      = "rest"
	TypeTerraform = "terraform"
	TypePython3   = "python3"

	OperationGet  = "get"
	OperationPost = "post"

	OutputTypeXML    = "xml"
	OutputTypeJSON   = "json"
	OutputTypeBase64 = "base64"
)

// Manifest is the .meta-cnc.yaml format: an ordered list of snippets sharing
// one output format.
type Manifest struct {
	Name        string     `yaml:"name"`
	Label       string     `yaml:"label"`
	Description string     `yaml:"description"`
	Type        string     `yaml:"type"`
	SnippetPath string     `yaml:"snippet_path"`
	OutputType  string     `yaml:"output_type"`
	Variables   []Variable `yaml:"variables"`
	Snippets    []Snippet  `yaml:"snippets"`

	// Set by the loader, not from YAML.
	Dir      string `yaml:"-"`
	FilePath string `yaml:"-"`
}

// Variable declares a template variable and its default value.
type Variable struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Default     string `yaml:"default"`
	TypeHint    string `yaml:"type_hint"`
}

// Snippet is one REST step.
type Snippet struct {
	Name        string   `yaml:"name"`
	Path        string   `yaml:"path"`
	Operation   string   `yaml:"operation"`
	Payload     string   `yaml:"payload"`
	ContentType string   `yaml:"content_type"`
	AcceptsType string   `yaml:"accepts_type"`
	Outputs     []Output `yaml:"outputs"`
}

// Output names a value captured from a snippet's raw result.
type Output struct {
	Name           string `yaml:"name"`
	CapturePattern string `yaml:"capture_pattern"`
}

// Target is one set of variables a manifest can be run against.
type Target struct {
	Name    string            `yaml:"name"`
	Context map[string]string `yaml:"context"`
}

// TargetsConfig is the targets file format.
type TargetsConfig struct {
	Targets []Target `yaml:"targets"`
}
