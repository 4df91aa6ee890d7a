package catalog

import "github.com/lordzed/achievement-viewer/pkg/steam"

// TitleInfo is the merged per-title document persisted as game-info.json.
type TitleInfo struct {
	AppID        string                       `json:"appid"`
	Name         string                       `json:"name"`
	Icon         string                       `json:"icon"`
	Achievements map[string]steam.Achievement `json:"achievements"`
	UsesDB       bool                         `json:"uses_db"`
	Platform     *string                      `json:"platform"`
	Blacklist    []string                     `json:"blacklist"`
}

// NewTitleInfo returns a stub document for a title nothing is known about.
func NewTitleInfo(appID string) TitleInfo {
	return TitleInfo{
		AppID:        appID,
		Name:         "Game " + appID,
		Icon:         "",
		Achievements: make(map[string]steam.Achievement),
		Blacklist:    []string{},
	}
}

// UnlockRecord is one normalized unlock entry.
type UnlockRecord struct {
	Earned     bool  `json:"earned"`
	EarnedTime int64 `json:"earned_time"`
}

// Entry is one title in the aggregate catalog.
type Entry struct {
	AppID        string                  `json:"appid"`
	Info         TitleInfo               `json:"info"`
	Achievements map[string]UnlockRecord `json:"achievements"`
}
