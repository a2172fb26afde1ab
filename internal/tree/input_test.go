package tree

import (
	"testing"
	"time"

	"github.com/existflow/paperclip/internal/dateparse"
	"github.com/existflow/paperclip/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInput(t *testing.T) {
	eod := func(y int, m time.Month, d int) *time.Time {
		v := time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
		return &v
	}
	tests := []struct {
		name     string
		raw      string
		desc     string
		tags     []string
		contexts []string
		priority int
		due      *time.Time
		rec      *model.Recurrence
	}{
		{name: "plain", raw: "Buy milk", desc: "Buy milk"},
		{name: "markers", raw: "Fix bug #Work @office !3", desc: "Fix bug", tags: []string{"work"}, contexts: []string{"office"}, priority: 3},
		{name: "trailing punctuation", raw: "Tidy #home, now", desc: "Tidy now", tags: []string{"home"}},
		{name: "due single word", raw: "Pay rent due:tomorrow", desc: "Pay rent", due: eod(2024, 6, 11)},
		{name: "due quoted", raw: `Demo due:"next friday" #team`, desc: "Demo", tags: []string{"team"}, due: eod(2024, 6, 14)},
		{name: "due greedy", raw: "Review due:in 3 days with Sam", desc: "Review with Sam", due: eod(2024, 6, 13)},
		{name: "due iso", raw: "Ship due:2024-07-01", desc: "Ship", due: eod(2024, 7, 1)},
		{name: "due recurrence", raw: "Standup due:daily", desc: "Standup", due: eod(2024, 6, 10), rec: &model.Recurrence{Kind: model.RecurDaily}},
		{name: "bare hash kept", raw: "Item # 5", desc: "Item # 5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := ParseInput(tt.raw, now)
			require.NoError(t, err)
			assert.Equal(t, tt.desc, in.Description)
			assert.Equal(t, tt.raw, in.Raw)
			assert.Equal(t, tt.tags, in.Tags)
			assert.Equal(t, tt.contexts, in.Contexts)
			assert.Equal(t, tt.priority, in.Priority)
			assert.Equal(t, tt.due, in.DueDate)
			assert.Equal(t, tt.rec, in.Recurrence)
		})
	}
}

func TestParseInputBadDueKeepsRest(t *testing.T) {
	in, err := ParseInput("Call Bob due:someday #phone", now)
	require.Error(t, err)
	assert.ErrorIs(t, err, dateparse.ErrUnrecognized)
	assert.Equal(t, "Call Bob", in.Description)
	assert.Equal(t, []string{"phone"}, in.Tags)
	assert.Nil(t, in.DueDate)
}

func TestParseInputEmptyDescription(t *testing.T) {
	_, err := ParseInput("#only @markers", now)
	assert.ErrorIs(t, err, ErrInvalidValue)
}
