package metadata

import "strings"

// FileExt returns the extension of a file name including the dot. A dot that
// starts or ends the name does not begin an extension, so ".pdf" and "notes."
// have none.
func FileExt(name string) string {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}

// TypeOf returns the upper-case extension without its dot ("PDF")
func TypeOf(name string) string {
	return strings.ToUpper(strings.TrimPrefix(FileExt(name), "."))
}

// NormalizeExt lower-cases an extension and makes sure it has a leading dot
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}
