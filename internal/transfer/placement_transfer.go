package transfer

type PlacementCreation struct {
	SiteID               int64   `json:"site_id"`
	ProjectID            int64   `json:"project_id"`
	LinkIDs              []int64 `json:"link_ids"`
	ArticleIDs           []int64 `json:"article_ids"`
	ScheduledPublishDate string  `json:"scheduled_publish_date"`
	AutoRenewal          bool    `json:"auto_renewal"`
}

type PlacementRemoval struct {
	PlacementID int64 `json:"placement_id"`
}

type PlacementRenewal struct {
	PlacementID int64 `json:"placement_id"`
}

// RemotePost is the payload handed to the publishing gateway.
type RemotePost struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Slug    string `json:"slug"`
}
