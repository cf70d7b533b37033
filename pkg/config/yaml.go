package config

// yamlConfig is the intermediate struct for parsing the YAML config file.
// Absent fields keep their defaults.
type yamlConfig struct {
	DirectiveSpelling string   `yaml:"directive_spelling,omitempty"`
	AttributeSpelling string   `yaml:"attribute_spelling,omitempty"`
	NoReturnFunctions []string `yaml:"noreturn_functions,omitempty"`
	Extensions        []string `yaml:"extensions,omitempty"`
	MaxFileSize       int64    `yaml:"max_file_size,omitempty"`
	IncludeHidden     bool     `yaml:"include_hidden,omitempty"`
}

// merge applies the parsed file over the defaults.
func (y *yamlConfig) merge(c *Config) {
	if y.DirectiveSpelling != "" {
		c.DirectiveSpelling = y.DirectiveSpelling
	}
	if y.AttributeSpelling != "" {
		c.AttributeSpelling = y.AttributeSpelling
	}
	if len(y.NoReturnFunctions) > 0 {
		c.NoReturnFunctions = append(c.NoReturnFunctions, y.NoReturnFunctions...)
	}
	if len(y.Extensions) > 0 {
		c.Extensions = append([]string(nil), y.Extensions...)
	}
	if y.MaxFileSize > 0 {
		c.MaxFileSize = y.MaxFileSize
	}
	if y.IncludeHidden {
		c.IncludeHidden = true
	}
}
