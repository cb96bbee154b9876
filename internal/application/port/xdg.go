package port

// XDGPaths provides XDG Base Directory paths.
type XDGPaths interface {
	ConfigDir() (string, error)
	DataDir() (string, error)
	StateDir() (string, error)
	CacheDir() (string, error)

	// FilterCacheDir is where downloaded filter lists are stored.
	FilterCacheDir() (string, error)
}
