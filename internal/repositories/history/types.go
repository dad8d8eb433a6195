package history

// AppendInput holds the parameters for Append
type AppendInput struct {
	// Summary is the formatted record of one finished match
	Summary string
}

// GetAllInput holds the parameters for GetAll
type GetAllInput struct{}

// GetAllOutput holds the result of GetAll
type GetAllOutput struct {
	// Summaries in insertion order, oldest first
	Summaries []string
}
