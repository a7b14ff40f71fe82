package ui

type fullscreenWindow interface {
	FullScreen() bool
	SetFullScreen(bool)
}

// ToggleFullscreen flips w between windowed and fullscreen and returns the
// mode the window reports afterwards. A refused request leaves it unchanged.
func ToggleFullscreen(w fullscreenWindow) bool {
	w.SetFullScreen(!w.FullScreen())
	return w.FullScreen()
}
