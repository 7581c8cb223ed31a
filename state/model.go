package state

// AppState is the persisted part of the application state.
type AppState struct {
	CustomEditors  []string `json:"customEditors"`
	RecentlyOpened []string `json:"recentlyOpened"` // MRU order, max 10 paths
}

const maxRecent = 10
