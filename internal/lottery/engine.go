// Package lottery decides draw outcomes: whether a draw wins at all, which
// prizes still have stock, and which of those a win lands on.
//
// The package holds no state beyond its random source. Persisting the outcome
// and making the stock count consistent with the insert is the caller's job.
package lottery

import (
	"fmt"

	"github.com/Eursukkul/expo-draw-service/internal/models"
)

// WinCounter reports how many winning draws already carry prizeName.
type WinCounter func(prizeName string) (int64, error)

type Decision struct {
	IsWin  bool
	Result string
}

var noWin = Decision{IsWin: false, Result: models.NoWinResult}

type Engine struct {
	src Source
}

func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}

// Decide rolls against the win rate and, on a win, picks among the prizes that
// still have stock. A win with nothing pickable degrades to a loss.
// WinCounter is only consulted on a win and only for capped prizes.
func (e *Engine) Decide(settings models.DrawSettings, countWins WinCounter) (Decision, error) {
	if !Won(e.src, settings.WinRate) {
		return noWin, nil
	}

	available, err := Available(settings.Prizes, countWins)
	if err != nil {
		return Decision{}, err
	}

	prize, ok := Pick(e.src, available)
	if !ok {
		return noWin, nil
	}
	return Decision{IsWin: true, Result: prize.Name}, nil
}

// Won reports whether a uniform roll falls strictly below winRate.
func Won(src Source, winRate float64) bool {
	return src.Float64() < winRate
}

// Available keeps, in order, the prizes that are unlimited or whose recorded
// wins are still below their cap. A cap of zero is never available.
func Available(prizes []models.Prize, countWins WinCounter) ([]models.Prize, error) {
	available := make([]models.Prize, 0, len(prizes))
	for _, p := range prizes {
		if p.Qty == nil {
			available = append(available, p)
			continue
		}
		if *p.Qty <= 0 {
			continue
		}
		won, err := countWins(p.Name)
		if err != nil {
			return nil, fmt.Errorf("count wins for %q: %w", p.Name, err)
		}
		if won < int64(*p.Qty) {
			available = append(available, p)
		}
	}
	return available, nil
}

// Pick makes a weighted choice. Prizes with a non-positive weight are treated
// as disabled and can never be chosen, not even by the fallback. The second
// return is false when no prize has positive weight.
func Pick(src Source, prizes []models.Prize) (models.Prize, bool) {
	var total float64
	last := -1
	for i, p := range prizes {
		if p.Weight > 0 {
			total += p.Weight
			last = i
		}
	}
	if last < 0 {
		return models.Prize{}, false
	}

	remaining := src.Float64() * total
	for _, p := range prizes {
		if p.Weight <= 0 {
			continue
		}
		remaining -= p.Weight
		if remaining <= 0 {
			return p, true
		}
	}
	// float rounding can leave a sliver of remainder after the last prize
	return prizes[last], true
}
