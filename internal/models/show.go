package models

// ShowHandle is the provider-internal identifier of a series
type ShowHandle struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MovieHandle is the provider-internal identifier of a movie
type MovieHandle struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
