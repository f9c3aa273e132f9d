package maps

// PredictionsRequest represents the query parameters from the frontend.
type PredictionsRequest struct {
	Query string `form:"q" binding:"required,min=1,max=256"`
}
