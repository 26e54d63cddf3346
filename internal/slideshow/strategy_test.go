package slideshow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type step struct {
	d  time.Duration
	ev Event
}

func run(s Strategy, n int) []step {
	out := make([]step, n)
	for i := range out {
		d, ev := s.Next()
		out[i] = step{d, ev}
	}
	return out
}

func TestFormatSecs(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00"},
		{10 * time.Second, "00:00:10"},
		{80 * time.Second, "00:01:20"},
		{3*time.Hour + 2*time.Minute + time.Second, "03:02:01"},
		{-time.Second, "00:00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSecs(tt.in))
	}
}

func TestFixed(t *testing.T) {
	f := NewFixed(5 * time.Second)
	assert.Equal(t, []step{{5 * time.Second, EventNone}, {5 * time.Second, EventNone}}, run(f, 2))
	assert.Equal(t, 5*time.Second, f.Speed())
	assert.Equal(t, "Showing each image for 00:00:05", f.Notice())
}

func TestIncrementalConcreteCase(t *testing.T) {
	inc := NewIncremental(10*time.Second, 3)

	steps := run(inc, 3)
	assert.Equal(t, step{10 * time.Second, EventNone}, steps[0])
	assert.Equal(t, step{10 * time.Second, EventNone}, steps[1])
	assert.Equal(t, step{80 * time.Second, EventChanged}, steps[2])
	assert.Equal(t, 2, inc.Remaining())

	assert.Equal(t, []step{
		{80 * time.Second, EventNone},
		{40 * time.Second, EventChanged},
		{20 * time.Second, EventChanged},
	}, run(inc, 3))
	assert.Zero(t, inc.Remaining())

	_, ev := inc.Next()
	assert.Equal(t, EventComplete, ev)
}

func TestIncrementalReset(t *testing.T) {
	inc := NewIncremental(10*time.Second, 2)
	for {
		if _, ev := inc.Next(); ev == EventComplete {
			break
		}
	}
	inc.Reset()
	assert.Equal(t, 10*time.Second, inc.Speed())
	assert.Equal(t, 2, inc.Remaining())
	d, ev := inc.Next()
	assert.Equal(t, 10*time.Second, d)
	assert.Equal(t, EventNone, ev)
}

func TestIncrementalZeroIntervalCompletesImmediately(t *testing.T) {
	inc := NewIncremental(10*time.Second, 0)
	_, ev := inc.Next()
	assert.Equal(t, EventComplete, ev)
	assert.Equal(t, 1, inc.TotalImages())
}

func TestIncrementalTotals(t *testing.T) {
	inc := NewIncremental(10*time.Second, 3)
	assert.Equal(t, 7, inc.TotalImages())
	// 10 + 10 + 80 + 80 + 40 + 20
	assert.Equal(t, 240*time.Second, inc.TimeLeft())

	run(inc, 3)
	assert.Equal(t, 140*time.Second, inc.TimeLeft(), "TimeLeft must not disturb the strategy")
	assert.Equal(t, 2, inc.Remaining())
	assert.Equal(t, "Turning it up to 00:01:20 for 2 images!\nTime left in slideshow: 00:02:20", inc.Notice())
}

func TestTable(t *testing.T) {
	table := NewTable([]Row{
		{Count: 2, Duration: 30 * time.Second},
		{Count: 0, Duration: time.Hour},
		{Count: 1, Duration: time.Minute},
	})
	assert.Equal(t, 2*time.Minute, table.TotalTime())

	assert.Equal(t, []step{
		{30 * time.Second, EventNone},
		{30 * time.Second, EventNone},
		{time.Minute, EventChanged},
		{0, EventComplete},
	}, run(table, 4))

	// rewound to the first row for the next run
	d, ev := table.Next()
	assert.Equal(t, 30*time.Second, d)
	assert.Equal(t, EventNone, ev)
	assert.Equal(t, 90*time.Second, table.TimeLeft())
}

func TestTableNoticeAndSpeed(t *testing.T) {
	table := NewTable([]Row{{Count: 3, Duration: 5 * time.Second}, {Count: 1, Duration: 10 * time.Second}})
	table.Next()
	assert.Equal(t, 5*time.Second, table.Speed())
	assert.Equal(t, "Next 3 images at 00:00:05 (row 1 of 2)\nTime left in slideshow: 00:00:20", table.Notice())
	assert.Equal(t, 2, len(table.Rows()))
}

func TestRandomDrawClampsToBudget(t *testing.T) {
	r := NewRandomDraw(100*time.Second, []time.Duration{40 * time.Second}, func(int) int { return 0 })
	assert.Equal(t, []step{
		{40 * time.Second, EventNone},
		{40 * time.Second, EventNone},
		{20 * time.Second, EventChanged},
		{0, EventComplete},
	}, run(r, 4))
	assert.Zero(t, r.TimeLeft())

	r.Reset()
	assert.Equal(t, 100*time.Second, r.TimeLeft())
	d, _ := r.Next()
	assert.Equal(t, 40*time.Second, d)
}

func TestRandomDrawUsesSource(t *testing.T) {
	picks := []int{1, 0, 1}
	i := 0
	intn := func(n int) int {
		require.Equal(t, 2, n)
		p := picks[i%len(picks)]
		i++
		return p
	}
	r := NewRandomDraw(time.Hour, []time.Duration{time.Second, time.Minute}, intn)
	assert.Equal(t, []step{
		{time.Minute, EventNone},
		{time.Second, EventChanged},
		{time.Minute, EventChanged},
	}, run(r, 3))
	assert.Equal(t, time.Minute, r.Speed())
	assert.Equal(t, "Next image in 00:01:00\nTime left in slideshow: 00:57:59", r.Notice())
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		kind Kind
		err  bool
	}{
		{"fixed", Config{Kind: KindFixed, Speed: time.Second}, KindFixed, false},
		{"empty kind is fixed", Config{Speed: time.Second}, KindFixed, false},
		{"fixed without speed", Config{Kind: KindFixed}, "", true},
		{"incremental", Config{Kind: KindIncremental, Speed: time.Second, Increment: 3}, KindIncremental, false},
		{"incremental overflow", Config{Kind: KindIncremental, Speed: time.Second, Increment: 64}, "", true},
		{"incremental long run", Config{Kind: KindIncremental, Speed: time.Second, Increment: 20}, KindIncremental, false},
		{"incremental interval overflow", Config{Kind: KindIncremental, Speed: 10 * time.Second, Increment: 30}, "", true},
		{"table", Config{Kind: KindTable, Rows: []Row{{Count: 1, Duration: time.Second}}}, KindTable, false},
		{"table without rows", Config{Kind: KindTable}, "", true},
		{"table bad row", Config{Kind: KindTable, Rows: []Row{{Count: 1}}}, "", true},
		{"random", Config{Kind: KindRandom, Budget: time.Minute, Candidates: []time.Duration{time.Second}}, KindRandom, false},
		{"random without candidates", Config{Kind: KindRandom, Budget: time.Minute}, "", true},
		{"random without budget", Config{Kind: KindRandom, Candidates: []time.Duration{time.Second}}, "", true},
		{"unknown", Config{Kind: "bogus", Speed: time.Second}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Build(tt.cfg, nil)
			if tt.err {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, s.Kind())
		})
	}
}

func TestIncrementalAtSpeedLimitStaysPositive(t *testing.T) {
	for _, increment := range []int{1, 10, 30} {
		limit := MaxIncrementalSpeed(increment)
		_, err := Build(Config{Kind: KindIncremental, Speed: limit, Increment: increment}, nil)
		require.NoError(t, err, "increment %d", increment)
		_, err = Build(Config{Kind: KindIncremental, Speed: limit + 1, Increment: increment}, nil)
		assert.ErrorIs(t, err, ErrInvalidConfig, "increment %d", increment)

		inc := NewIncremental(limit, increment)
		assert.Positive(t, inc.TimeLeft())
		for {
			d, ev := inc.Next()
			require.Positive(t, d, "increment %d", increment)
			if ev == EventComplete {
				break
			}
		}
	}
}
