package model

type SignupRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type BookCreateRequest struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Publisher     string `json:"publisher"`
	PublishedDate string `json:"published_date"`
	PageCount     int    `json:"page_count"`
	Language      string `json:"language"`
}

type BookUpdateRequest struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	Language  string `json:"language"`
}

type ReviewCreateRequest struct {
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

type TagCreateRequest struct {
	Name string `json:"name"`
}

type TagAddRequest struct {
	Tags []TagCreateRequest `json:"tags"`
}
