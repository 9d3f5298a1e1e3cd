package model

// Entry is a single key=value line of a workflow command file
type Entry struct {
	Key   string
	Value string
}
