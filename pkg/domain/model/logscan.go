package model

// IndexChange is a log line reporting an index moving from one value to another
type IndexChange struct {
	Tag     string // Word between the square brackets
	From    int64
	To      int64
	LineNum int    // 1-based line number in the scanned log
	Line    string // Full log line
}
