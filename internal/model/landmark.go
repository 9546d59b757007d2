package model

// LandmarkResult is the landmark endpoint success body.
type LandmarkResult struct {
	ImageURL string `json:"imageUrl"`
}

// UnsplashSearchResponse is the subset of the Unsplash photo search payload we read.
type UnsplashSearchResponse struct {
	Total   int `json:"total"`
	Results []struct {
		ID   string `json:"id"`
		URLs struct {
			Raw     string `json:"raw"`
			Full    string `json:"full"`
			Regular string `json:"regular"`
			Small   string `json:"small"`
		} `json:"urls"`
	} `json:"results"`
}
