package scenic

import "time"

type Scenic struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	City        *string   `json:"city"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	CoverImage  *string   `json:"cover_image"`
	CreateTime  time.Time `json:"create_time"`
}

// MapPoint is the trimmed shape the map screen plots.
type MapPoint struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	CoverImage *string  `json:"cover_image"`
}
