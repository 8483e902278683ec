package common

const (
	// SessionCookieName carries the signed session token issued after login.
	SessionCookieName = "session"

	// FlashCookieName carries a one-shot signed message for the next page.
	FlashCookieName = "_flash"

	// SubscriptionTokenLength is the length of a confirmation token.
	SubscriptionTokenLength = 25
)
