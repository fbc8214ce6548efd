package repository

import "time"

// Import represents one bulk load into the sheet.
type Import struct {
	ID           string
	SessionID    string
	Source       string
	Query        string
	Top          int
	Left         int
	Rows         int
	Cols         int
	CellsWritten int
	CreatedAt    time.Time
}
