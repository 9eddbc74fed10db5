package transfer

type SiteRegistration struct {
	BaseURL      string `json:"base_url"`
	Kind         string `json:"kind"`
	Credential   string `json:"credential"`
	MaxLinks     int    `json:"max_links"`
	MaxArticles  int    `json:"max_articles"`
	LinkPrice    int64  `json:"link_price"`
	ArticlePrice int64  `json:"article_price"`
}

type LinkCreation struct {
	ProjectID  int64  `json:"project_id"`
	URL        string `json:"url"`
	AnchorText string `json:"anchor_text"`
	UsageLimit int    `json:"usage_limit"`
}

type ArticleCreation struct {
	ProjectID int64  `json:"project_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	ImageURL  string `json:"image_url"`
}

type ProjectCreation struct {
	Name string `json:"name"`
}

type Deposit struct {
	Amount int64 `json:"amount"`
}
