package profile

const (
	TargetScenic  = "SCENIC"
	TargetProduct = "PRODUCT"
)

// VisitedView is one check-in joined with the scenic it points at, for the
// footprint list on the profile screen.
type VisitedView struct {
	ScenicID   int64   `json:"scenic_id"`
	VisitDate  string  `json:"visit_date"`
	Rating     *int    `json:"rating"`
	Name       string  `json:"name"`
	City       *string `json:"city"`
	CoverImage *string `json:"cover_image"`
}
