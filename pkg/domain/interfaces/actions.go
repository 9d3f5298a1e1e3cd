package interfaces

import "github.com/acalanetwork/relver/pkg/domain/model"

// EntryWriter writes key=value lines to a workflow command file (GITHUB_OUTPUT, GITHUB_ENV)
type EntryWriter interface {
	Write(entries ...model.Entry) error
}
