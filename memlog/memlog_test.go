package memlog_test

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wallnutkraken/gophotopoll/memlog"
)

func TestChild_RecordsLinesWithPackage(t *testing.T) {
	out := &bytes.Buffer{}
	logs := memlog.New(out, logrus.InfoLevel)
	child := logs.NewChild("bot")

	child.WithField("poll", 7).Info("poll resolved")
	child.Debug("below level, dropped")
	child.Error("stopPoll failed")

	lines := logs.GetAllLogs()
	require.Len(t, lines, 2)
	assert.Equal(t, "poll resolved", lines[0].Message)
	assert.Equal(t, "bot", lines[0].Fields["package"])
	assert.Equal(t, 7, lines[0].Fields["poll"])
	assert.Contains(t, out.String(), "stopPoll failed")

	errs := logs.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, logrus.ErrorLevel, errs[0].Level)

	logs.Reset()
	assert.Empty(t, logs.GetAllLogs())
}
