package cli

import (
	"log/slog"

	"github.com/acalanetwork/relver/pkg/domain/interfaces"
	"github.com/acalanetwork/relver/pkg/domain/model"
	"github.com/acalanetwork/relver/pkg/infra/actions"
	"github.com/m-mizutani/goerr/v2"
)

// entryBatch is a set of entries for one workflow command file. A nil writer
// means the file is not configured, e.g. when running outside a workflow.
type entryBatch struct {
	kind    string
	writer  interfaces.EntryWriter
	entries []model.Entry
}

func newEntryBatch(kind, path string, entries []model.Entry) entryBatch {
	b := entryBatch{kind: kind, entries: entries}
	if path != "" {
		b.writer = actions.NewFileWriter(path)
	}
	return b
}

// writeBatches validates every batch before writing any of them, so an invalid
// entry leaves all files untouched
func writeBatches(logger *slog.Logger, batches ...entryBatch) error {
	for _, b := range batches {
		if err := actions.ValidateEntries(b.entries...); err != nil {
			return goerr.Wrap(err, "invalid workflow entries", goerr.V("kind", b.kind))
		}
	}

	for _, b := range batches {
		attrs := make([]any, 0, len(b.entries)+1)
		attrs = append(attrs, slog.String("kind", b.kind))
		for _, e := range b.entries {
			attrs = append(attrs, slog.String(e.Key, e.Value))
		}

		if b.writer == nil {
			logger.Info("No workflow command file, skip writing", attrs...)
			continue
		}

		if err := b.writer.Write(b.entries...); err != nil {
			return goerr.Wrap(err, "failed to write workflow entries", goerr.V("kind", b.kind))
		}
		logger.Debug("Wrote workflow entries", attrs...)
	}

	return nil
}
