package plans

import "time"

// Plan.Content holds the itinerary as free text; the client typically stores
// structured JSON there and renders the day-by-day breakdown itself.
type Plan struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Title      *string   `json:"title"`
	StartDate  *string   `json:"start_date"`
	EndDate    *string   `json:"end_date"`
	Source     string    `json:"source"`
	Content    *string   `json:"content"`
	CreateTime time.Time `json:"create_time"`
}

type CreateInput struct {
	UserID    int64
	Title     *string
	StartDate *string
	EndDate   *string
	Source    string
	Content   *string
}
