// File: utils/constants.go
package utils

import "time"

// SessionCachePrefix is the prefix used for Redis conversation session keys.
const SessionCachePrefix = "chat:sess:"

// AdminTokenTTL is the lifetime of an issued admin session JWT.
const AdminTokenTTL = 12 * time.Hour
