package app

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/connecto-io/connecto-go/pkg/delivery"
	"github.com/connecto-io/connecto-go/pkg/log"
)

// maxLineBytes bounds a single NDJSON record.
const maxLineBytes = 1 << 20

// ReadResult counts the records of one NDJSON stream.
type ReadResult struct {
	Added   int
	Skipped int
}

// ReadNDJSON adds one message per non-blank line of r to d. Lines that are
// not valid message records are logged and skipped. It fails only when r
// cannot be read.
func ReadNDJSON(r io.Reader, d *delivery.Delivery, logger log.Logger) (ReadResult, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	var res ReadResult
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		record := bytes.TrimSpace(scanner.Bytes())
		if len(record) == 0 {
			continue
		}
		if err := d.AddJSON(record); err != nil {
			res.Skipped++
			logger.Warn("skipping record", log.Int("line", line), log.Err(err))
			continue
		}
		res.Added++
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("read records: %w", err)
	}
	return res, nil
}
