// Package schema lists every persisted model so migrations and test
// databases agree on one table set.
package schema

import (
	authdomain "notify-backend/internal/auth/domain"
	contentdomain "notify-backend/internal/content/domain"
	inboxdomain "notify-backend/internal/inbox/domain"
	pushdomain "notify-backend/internal/push/domain"
)

// Models returns the gorm models in dependency order
func Models() []interface{} {
	return []interface{}{
		&authdomain.User{},
		&contentdomain.Book{},
		&pushdomain.DeviceToken{},
		&pushdomain.NotificationPreference{},
		&inboxdomain.InboxMessage{},
	}
}
