package ports

// ClipPublisher makes an audio clip retrievable over HTTP and returns its URL.
type ClipPublisher interface {
	Publish(data []byte) (string, error)
}
