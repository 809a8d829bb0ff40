package edges_test

import (
	"testing"

	"github.com/aretw0/txgraph/pkg/domain"
	"github.com/aretw0/txgraph/pkg/edges"
	"github.com/stretchr/testify/assert"
)

func TestAnnotator_Annotate(t *testing.T) {
	entry := domain.Entry{
		Recipient: "R1",
		Time:      "2023-01-01T00:00:00",
		Value:     100000000,
		ValueUSD:  16547.5,
	}

	tests := []struct {
		name      string
		annotator edges.Annotator
		want      string
	}{
		{
			name:      "nothing requested",
			annotator: edges.Annotator{},
			want:      "",
		},
		{
			name:      "full time and native value",
			annotator: edges.Annotator{Time: edges.TimeFull, Values: edges.ValueSet{Native: true}},
			want:      `2023-01-01T00:00:00\nBTC1.0`,
		},
		{
			name:      "date only falls back to time prefix",
			annotator: edges.Annotator{Time: edges.TimeDate},
			want:      "2023-01-01",
		},
		{
			name:      "native only",
			annotator: edges.Annotator{Values: edges.ValueSet{Native: true}},
			want:      "BTC1.0",
		},
		{
			name:      "fiat only",
			annotator: edges.Annotator{Values: edges.ValueSet{Fiat: true}},
			want:      "USD16547.5",
		},
		{
			name:      "both values",
			annotator: edges.Annotator{Values: edges.ValueSet{Native: true, Fiat: true}},
			want:      `BTC1.0\nUSD16547.5`,
		},
		{
			name:      "everything",
			annotator: edges.Annotator{Time: edges.TimeDate, Values: edges.ValueSet{Native: true, Fiat: true}},
			want:      `2023-01-01\nBTC1.0\nUSD16547.5`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.annotator.Annotate(entry))
		})
	}
}

func TestAnnotator_ExplicitDateWins(t *testing.T) {
	a := edges.Annotator{Time: edges.TimeDate}
	got := a.Annotate(domain.Entry{Time: "2023-01-01 23:59:59", Date: "2023-01-02"})
	assert.Equal(t, "2023-01-02", got)
}

func TestAnnotator_MissingTimeLeavesNoSeparator(t *testing.T) {
	a := edges.Annotator{Time: edges.TimeFull, Values: edges.ValueSet{Native: true}}
	assert.Equal(t, "BTC0.5", a.Annotate(domain.Entry{Value: 50000000}))
}

func TestFormatNative(t *testing.T) {
	tests := map[int64]string{
		0:          "0.0",
		1:          "0.00000001",
		12345:      "0.00012345",
		100000000:  "1.0",
		150000000:  "1.5",
		2100000000: "21.0",
		-50000000:  "-0.5",
	}
	for sats, want := range tests {
		assert.Equal(t, want, edges.FormatNative(sats), "sats=%d", sats)
	}
}

func TestParseTimeGranularity(t *testing.T) {
	g, err := edges.ParseTimeGranularity("date")
	assert.NoError(t, err)
	assert.Equal(t, edges.TimeDate, g)

	_, err = edges.ParseTimeGranularity("hourly")
	assert.Error(t, err)
}
