package serpapi

type searchResponse struct {
	Error        string        `json:"error"`
	VideoResults []videoResult `json:"video_results"`
}

type videoResult struct {
	Position  int    `json:"position"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	Thumbnail string `json:"thumbnail"`
	Date      string `json:"date"`
	Snippet   string `json:"snippet"`
	Duration  string `json:"duration"`
	Source    string `json:"source"`
	VideoLink string `json:"video_link"`
	Channel   struct {
		Name string `json:"name"`
	} `json:"channel"`
}
