package reddit

// Listing is the envelope Reddit wraps around every listing response.
type Listing struct {
	Data struct {
		Children []struct {
			Data Submission `json:"data"`
		} `json:"children"`
		After string `json:"after"`
	} `json:"data"`
}

// Submission is the subset of a Reddit post the collector cares about.
type Submission struct {
	Name        string  `json:"name"` // fullname, e.g. t3_abc123
	Subreddit   string  `json:"subreddit"`
	Title       string  `json:"title"`
	SelfText    string  `json:"selftext"`
	Ups         int     `json:"ups"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}
