// Package serial contains the functions to export the decision journal as a gzipped text file
package serial

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/wallnutkraken/gophotopoll/pollbrain/dbwrap"
)

// DumpName is the file name stored in the gzip header
const DumpName = "PollDecisions.txt"

// Line formats one decision as a tab separated line:
// unix, poll message id, yes, no, outcome, image path
func Line(d dbwrap.Decision) string {
	outcome := "kept"
	if d.Deleted {
		outcome = "deleted"
	}
	return fmt.Sprintf("%d\t%d\t%d\t%d\t%s\t%s", d.Unix, d.PollMessageID, d.Yes, d.No, outcome, d.ImagePath)
}

// Marshal serializes the given decisions in a gzipped format, one line per decision
func Marshal(decisions []dbwrap.Decision) ([]byte, error) {
	if len(decisions) == 0 {
		return []byte{}, nil
	}
	lines := make([]string, 0, len(decisions))
	for _, d := range decisions {
		lines = append(lines, Line(d))
	}

	var output bytes.Buffer
	zw := gzip.NewWriter(&output)
	zw.Name = DumpName
	zw.ModTime = time.Now().UTC()
	if _, err := zw.Write([]byte(strings.Join(lines, "\n"))); err != nil {
		return nil, errors.Wrap(err, "gzip")
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "gzip.Close")
	}
	return output.Bytes(), nil
}

// Unmarshal reads back the lines of a previous dump
func Unmarshal(v []byte) ([]string, error) {
	if len(v) == 0 {
		return []string{}, nil
	}
	reader, err := gzip.NewReader(bytes.NewReader(v))
	if err != nil {
		return nil, errors.Wrap(err, "gzip.NewReader")
	}
	defer reader.Close()
	allLines, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "io.ReadAll")
	}
	return strings.Split(string(allLines), "\n"), nil
}
