package arbiter

import (
	"strings"

	"github.com/mitchellh/go-homedir"
)

// schemeDelimiter separates a path's scheme from the rest of the path.
// Paths without it belong to the local filesystem.
const schemeDelimiter = "://"

// Scheme returns the substring before the first "://", or "file" when no
// delimiter is present.
func Scheme(path string) string {
	if pos := strings.Index(path, schemeDelimiter); pos >= 0 {
		return path[:pos]
	}
	return "file"
}

// StripScheme returns the substring after the first "://", or the path
// unchanged when no delimiter is present.
func StripScheme(path string) string {
	if pos := strings.Index(path, schemeDelimiter); pos >= 0 {
		return path[pos+len(schemeDelimiter):]
	}
	return path
}

// Extension returns the substring after the last ".", or "" when the path
// has none.
func Extension(path string) string {
	if pos := strings.LastIndex(path, "."); pos >= 0 {
		return path[pos+1:]
	}
	return ""
}

// StripExtension returns the path without its extension, or unchanged when
// it has none.
func StripExtension(path string) string {
	if pos := strings.LastIndex(path, "."); pos >= 0 {
		return path[:pos]
	}
	return path
}

// IsDirectory reports whether the path denotes a directory by convention,
// i.e. ends with a separator.
func IsDirectory(path string) bool {
	return strings.HasSuffix(path, "/")
}

// Basename returns the final path component of a scheme-stripped path.
func Basename(path string) string {
	stripped := StripScheme(path)
	if pos := strings.LastIndex(stripped, "/"); pos >= 0 {
		return stripped[pos+1:]
	}
	return stripped
}

// Dirname returns everything before the final path component, without a
// trailing separator. An undivided path yields "".
func Dirname(path string) string {
	if pos := strings.LastIndex(path, "/"); pos >= 0 {
		return path[:pos]
	}
	return ""
}

// ExpandTilde resolves a leading "~" to the current user's home directory.
// Paths without one come back unchanged.
func ExpandTilde(path string) (string, error) {
	return homedir.Expand(path)
}

// joinPath concatenates a root and a sub-path with exactly one separator
// between them, collapsing duplicates.
func joinPath(root, sub string) string {
	if root == "" {
		return sub
	}
	return strings.TrimSuffix(root, "/") + "/" + strings.TrimPrefix(sub, "/")
}

// stripGlob removes a trailing glob suffix ("*" or "**") from a path,
// leaving the directory portion.
func stripGlob(path string) string {
	return strings.TrimRight(path, "*")
}
