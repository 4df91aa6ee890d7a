package steam

// Achievement is the canonical per-achievement record persisted in a title's
// state file. Percent is attached only when the stats endpoint reported the
// achievement; a missing value is meaningful and distinct from zero.
type Achievement struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	IconGray    string   `json:"icongray"`
	Hidden      bool     `json:"hidden"`
	Percent     *float64 `json:"percent,omitempty"`
}

// SchemaAchievement is one entry of the authoritative achievement list,
// regardless of whether it came from the Web API or the browser lister.
type SchemaAchievement struct {
	APIName     string
	DisplayName string
	Description string
	Icon        string
	IconGray    string
	Hidden      bool
}

// GameDetails is the store metadata record for a title
type GameDetails struct {
	Name string
	Icon string
}

// DonorAchievement is one (display name, description) pair scraped from a
// donor profile's achievement page. API names are not present on the page;
// resolution happens against the reconciler's display-name lookup.
type DonorAchievement struct {
	Name        string
	Description string
}

// storeDetailsEntry is the raw appdetails response entry
type storeDetailsEntry struct {
	Success bool `json:"success"`
	Data    struct {
		Name        string `json:"name"`
		HeaderImage string `json:"header_image"`
	} `json:"data"`
}

// schemaResponse is the raw GetSchemaForGame response
type schemaResponse struct {
	Game struct {
		AvailableGameStats struct {
			Achievements []schemaAchievementEntry `json:"achievements"`
		} `json:"availableGameStats"`
	} `json:"game"`
}

type schemaAchievementEntry struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IconGray    string `json:"icongray"`
	Hidden      int    `json:"hidden"`
}

// percentResponse is the raw GetGlobalAchievementPercentagesForApp response
type percentResponse struct {
	AchievementPercentages struct {
		Achievements []struct {
			Name    string  `json:"name"`
			Percent float64 `json:"percent"`
		} `json:"achievements"`
	} `json:"achievementpercentages"`
}

// xmlStats is the root of the community achievements XML payload
type xmlStats struct {
	Achievements []xmlAchievement `xml:"achievements>achievement"`
}

type xmlAchievement struct {
	APIName     string `xml:"apiname"`
	Name        string `xml:"name"`
	Description string `xml:"description"`
	IconOpen    string `xml:"iconOpen"`
	IconClosed  string `xml:"iconClosed"`
}
