package ports

// Publisher hands produced artifacts to the outside world and returns a
// handle (URL) that can be used to play or download them.
type Publisher interface {
	// Publish registers data and returns its access URL.
	Publish(filename, mimeType string, data []byte) (url string, err error)

	// Revoke releases a URL returned by Publish. Unknown URLs are ignored.
	Revoke(url string)
}
