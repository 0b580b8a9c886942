package repository

// Page represents a simple limit/offset window for listing operations.
// I keep it intentionally small; the metadata envelope lives in pkg/pagination
// and belongs to higher layers.
type Page struct {
	Limit  int
	Offset int
}
