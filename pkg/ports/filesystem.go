package ports

// FileSystem abstracts file system operations on host files
// (input images, output videos, summaries, engine scratch space).
type FileSystem interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating parent directories if necessary.
	WriteFile(path string, data []byte) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error

	// Exists checks if a file or directory exists.
	Exists(path string) (bool, error)

	// Remove deletes a file or empty directory. Removing a missing path is not an error.
	Remove(path string) error

	// RemoveAll deletes a path and everything below it.
	RemoveAll(path string) error
}
