// Package config holds run configuration for the engine and the CLI:
// governed identifier spellings, extra noreturn names, and file selection
// for batch runs.
package config

// DefaultExtensions are the file extensions treated as C/C++ translation
// units during directory enumeration.
var DefaultExtensions = []string{
	".c", ".h", ".cc", ".hh", ".cpp", ".hpp", ".cxx", ".hxx",
	".c++", ".h++", ".inl", ".ipp", ".tcc",
}

// Config is the resolved run configuration.
type Config struct {
	// DirectiveSpelling is the identifier recognized as the fallthrough
	// directive. Default "fall_through".
	DirectiveSpelling string

	// AttributeSpelling is the attribute recognized as an intentional
	// fallthrough marker. Default "fallthrough".
	AttributeSpelling string

	// NoReturnFunctions are additional function names (optionally
	// qualified) whose calls terminate a case segment.
	NoReturnFunctions []string

	// Extensions selects files during directory enumeration.
	Extensions []string

	// MaxFileSize skips larger files during enumeration; 0 means no limit.
	MaxFileSize int64

	// IncludeHidden includes dotfiles and dot-directories in enumeration.
	IncludeHidden bool
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{
		DirectiveSpelling: "fall_through",
		AttributeSpelling: "fallthrough",
		Extensions:        append([]string(nil), DefaultExtensions...),
	}
}
