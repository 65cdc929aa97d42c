package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"minesweeper/internal/domain"
	"minesweeper/internal/event"
)

var (
	GamesStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minesweeper_games_started_total",
			Help: "Games that received their first reveal",
		},
		[]string{"difficulty"},
	)
	GamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minesweeper_games_finished_total",
			Help: "Games that reached a terminal state",
		},
		[]string{"difficulty", "result"},
	)
	MineMarks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minesweeper_mine_marks_total",
			Help: "Mine flags placed and removed",
		},
		[]string{"action"},
	)
	WinSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "minesweeper_win_duration_seconds",
			Help:    "Elapsed timer value of won games",
			Buckets: []float64{5, 10, 30, 60, 120, 300, 600, 999},
		},
		[]string{"difficulty"},
	)
)

func init() {
	prometheus.MustRegister(GamesStarted)
	prometheus.MustRegister(GamesFinished)
	prometheus.MustRegister(MineMarks)
	prometheus.MustRegister(WinSeconds)
}

// Listener feeds the collectors from one session's events.
type Listener struct {
	sub *event.Subscription
}

// NewListener subscribes for a session of difficulty. elapsed reads the
// session timer when the game is won; it may be nil.
func NewListener(bus *event.Bus, difficulty string, elapsed func() int) *Listener {
	l := &Listener{}
	l.sub = bus.Subscribe("metrics", event.Handlers{
		event.GameStart: func(event.Event) error {
			GamesStarted.WithLabelValues(difficulty).Inc()
			return nil
		},
		event.GameOver: func(event.Event) error {
			GamesFinished.WithLabelValues(difficulty, string(domain.GameResultLose)).Inc()
			return nil
		},
		event.Win: func(event.Event) error {
			GamesFinished.WithLabelValues(difficulty, string(domain.GameResultWin)).Inc()
			if elapsed != nil {
				WinSeconds.WithLabelValues(difficulty).Observe(float64(elapsed()))
			}
			return nil
		},
		event.MineMarked: func(event.Event) error {
			MineMarks.WithLabelValues("marked").Inc()
			return nil
		},
		event.MineUnmarked: func(event.Event) error {
			MineMarks.WithLabelValues("unmarked").Inc()
			return nil
		},
	})
	return l
}

func (l *Listener) Close() {
	l.sub.Unsubscribe()
}
