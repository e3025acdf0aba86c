package pluginmodule

import (
	"os"
	"strings"
)

// PathResolver expands search root templates into candidate module paths.
// It produces the bare library name first and the prefixed name second.
type PathResolver struct {
	extension string
	prefix    string
}

// NewPathResolver creates a resolver for the given library extension.
// An empty extension selects the platform default.
func NewPathResolver(extension string) PathResolver {
	if extension == "" {
		extension = ModuleExtension()
	}
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return PathResolver{
		extension: extension,
		prefix:    LibraryPrefix,
	}
}

// Extension returns the library file extension in use
func (pr PathResolver) Extension() string {
	return pr.extension
}

// ExpandDir substitutes the module name into a directory template, normalizes
// separators to forward slashes and guarantees a trailing slash.
func ExpandDir(template, name string) string {
	dir := strings.ReplaceAll(template, "\\", "/")
	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	return strings.ReplaceAll(dir, ModulePlaceholder, name)
}

// Candidates returns the library paths to try for a module under a binary
// dir template, in lookup order.
func (pr PathResolver) Candidates(binTemplate, name string) []string {
	dir := ExpandDir(binTemplate, name)
	return []string{
		dir + name + pr.extension,
		dir + pr.prefix + name + pr.extension,
	}
}

// Resolve returns the first candidate that exists as a regular file
func (pr PathResolver) Resolve(binTemplate, name string) (string, bool) {
	for _, path := range pr.Candidates(binTemplate, name) {
		if fileExists(path) {
			return path, true
		}
	}
	return "", false
}

// ModuleName strips the library extension from a file name.
// It reports false when the file does not carry the library extension.
func (pr PathResolver) ModuleName(fileName string) (string, bool) {
	if !strings.HasSuffix(fileName, pr.extension) {
		return "", false
	}
	name := strings.TrimSuffix(fileName, pr.extension)
	if name == "" {
		return "", false
	}
	return name, true
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
