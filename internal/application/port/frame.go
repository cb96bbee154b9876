package port

// MainFrameResolver resolves the top-level page URL of a tab.
type MainFrameResolver interface {
	MainFrameURL(tabID int) (string, bool)
}
