package steam

import "fmt"

const (
	storeBaseURL     = "https://store.steampowered.com"
	communityBaseURL = "https://steamcommunity.com"
	apiBaseURL       = "https://api.steampowered.com"
)

// StoreDetailsURL returns the store appdetails endpoint for a title
func StoreDetailsURL(appID string) string {
	return fmt.Sprintf("%s/api/appdetails?appids=%s", storeBaseURL, appID)
}

// XMLStatsURL returns the community achievements XML endpoint for a title
func XMLStatsURL(appID string) string {
	return fmt.Sprintf("%s/stats/%s/achievements/?xml=1", communityBaseURL, appID)
}

// SchemaURL returns the GetSchemaForGame endpoint for a title
func SchemaURL(apiKey, appID string) string {
	return fmt.Sprintf("%s/ISteamUserStats/GetSchemaForGame/v2/?key=%s&appid=%s", apiBaseURL, apiKey, appID)
}

// GlobalPercentagesURL returns the global unlock-percentage endpoint for a title
func GlobalPercentagesURL(appID string) string {
	return fmt.Sprintf("%s/ISteamUserStats/GetGlobalAchievementPercentagesForApp/v0002/?gameid=%s", apiBaseURL, appID)
}

// ProfileAchievementsURL returns the achievement page of a public profile for a title
func ProfileAchievementsURL(steamID int64, appID string) string {
	return fmt.Sprintf("%s/profiles/%d/stats/%s/achievements", communityBaseURL, steamID, appID)
}
