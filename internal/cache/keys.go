package cache

import "fmt"

// Key patterns shared between the handlers that populate the cache and the
// services that invalidate it after a write.

func UserPlacementsKey(userID int64) string {
	return fmt.Sprintf("placements:user:%d", userID)
}

func UserPlacementsPattern(userID int64) string {
	return fmt.Sprintf("placements:user:%d*", userID)
}

func SiteContentKey(siteID int64) string {
	return fmt.Sprintf("site:%d:content", siteID)
}

func SiteContentPattern(siteID int64) string {
	return fmt.Sprintf("site:%d:*", siteID)
}
