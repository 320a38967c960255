package browser

// Page is one navigable tab, short-lived and scoped to a single URL visit.
// The page context carries the navigation timeout; Close must be called on
// every exit path.
type Page interface {
	// Navigate loads the URL and waits for the document body to be ready.
	Navigate(url string) error
	// HTML returns a snapshot of the full document markup.
	HTML() (string, error)
	// Scroll advances the viewport to trigger lazy-loaded content.
	Scroll() error
	// Screenshot captures the full page as PNG bytes.
	Screenshot() ([]byte, error)
	// Close releases the tab.
	Close() error
}

// Browser hands out pages that share a single browsing context
// (cookies, storage) for the lifetime of a session.
type Browser interface {
	NewPage() (Page, error)
}
