package http

// Export private functions for testing
var (
	LocalPath       = localPath
	SessionCookie   = sessionCookieName
	FlashCookieName = flashCookieName
)
