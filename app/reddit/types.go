package reddit

import "encoding/json"

// Submission is a top-level post. Name is the kind-prefixed fullname
// (t3_<id>) the API expects for reply and lookup targets.
type Submission struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	Subreddit  string  `json:"subreddit"`
	SelfText   string  `json:"selftext"`
	URL        string  `json:"url"`
	IsSelf     bool    `json:"is_self"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
}

// Comment is a comment or an inbox mention. LinkID references the
// parent submission (t3_<id>).
type Comment struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Author     string  `json:"author"`
	Body       string  `json:"body"`
	LinkID     string  `json:"link_id"`
	Subreddit  string  `json:"subreddit"`
	Score      int     `json:"score"`
	WasComment bool    `json:"was_comment"`
	CreatedUTC float64 `json:"created_utc"`
}

type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type listingEnvelope struct {
	Kind string `json:"kind"`
	Data struct {
		Children []thing `json:"children"`
		After    string  `json:"after"`
	} `json:"data"`
}

type commentResponse struct {
	JSON struct {
		Errors [][]any `json:"errors"`
		Data   struct {
			Things []thing `json:"things"`
		} `json:"data"`
	} `json:"json"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
}
