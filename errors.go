package zipt

import "fmt"

// IOError reports a failed filesystem or stream operation along with the path that was being
// processed at the time. Any IOError aborts the whole job; there is no entry-level retry and no
// partial-success archive.
type IOError struct {
	// Op is the operation that failed, e.g. "open", "read", "write", "create".
	Op string
	// Path is the file being processed when the failure happened.
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf(`%s "%s" error: %v`, e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// FormatError is returned when a file cannot be parsed as a zip container.
type FormatError struct {
	// Path is the archive, or the name of the entry within it, that failed to parse.
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf(`"%s" is not a valid zip archive: %v`, e.Path, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// PathError is returned when an entry name cannot be represented as a safe relative path, or
// when it would resolve outside the designated output directory. Such entries are rejected
// outright, never silently written elsewhere.
type PathError struct {
	// Name is the offending entry name or filesystem path.
	Name string
	Err  error
}

func (e *PathError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf(`unsafe entry name "%s"`, e.Name)
	}

	return fmt.Sprintf(`entry name "%s" error: %v`, e.Name, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// ConfigError reports an invalid job configuration. Out-of-range compression levels are not a
// ConfigError; they are clamped to 0-9 instead.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid job: " + e.Reason
}
