package usecase

import (
	"bufio"
	"io"
	"regexp"
	"strconv"

	"github.com/acalanetwork/relver/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

var indexChangePattern = regexp.MustCompile(`\[(\w+)\] idx: (\d+) -> (\d+)`)

const maxLogLineSize = 1024 * 1024

// ScanIndexChanges reads a log and returns every line reporting an index change
// such as "[weight] idx: 3 -> 4". A number that overflows int64 is left as 0 and
// the line is still reported.
func ScanIndexChanges(r io.Reader) ([]model.IndexChange, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLogLineSize)

	var changes []model.IndexChange
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		m := indexChangePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		// ParseInt can only fail on overflow here; keep the zero value
		from, _ := strconv.ParseInt(m[2], 10, 64)
		to, _ := strconv.ParseInt(m[3], 10, 64)

		changes = append(changes, model.IndexChange{
			Tag:     m[1],
			From:    from,
			To:      to,
			LineNum: lineNum,
			Line:    line,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to read log", goerr.V("line", lineNum+1))
	}

	return changes, nil
}
