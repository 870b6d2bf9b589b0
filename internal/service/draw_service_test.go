package service

import (
	"context"
	"sync"
	"testing"

	"github.com/Eursukkul/expo-draw-service/internal/apperr"
	"github.com/Eursukkul/expo-draw-service/internal/lottery"
	"github.com/Eursukkul/expo-draw-service/internal/models"
	"github.com/Eursukkul/expo-draw-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDraw_EndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	expo := f.activeExhibition(t, "Expo1")
	f.checkin(t, "Li Lei", "13800001111")

	_, err := f.settings.Update(ctx, SettingsUpdate{
		WinRate: float64(1),
		Prizes:  []PrizeUpdate{{Name: "Gift", Weight: float64(1)}},
	})
	require.NoError(t, err)

	drawn, err := f.draws.HasDrawn(ctx, expo.ID, "13800001111")
	require.NoError(t, err)
	assert.False(t, drawn)

	outcome, err := f.draws.DrawForActive(ctx, "13800001111")
	require.NoError(t, err)
	assert.True(t, outcome.IsWin)
	assert.Equal(t, "Gift", outcome.Result)
	assert.False(t, outcome.DrawTime.IsZero())

	drawn, err = f.draws.HasDrawn(ctx, expo.ID, "13800001111")
	require.NoError(t, err)
	assert.True(t, drawn)

	_, err = f.draws.DrawForActive(ctx, "13800001111")
	assert.ErrorIs(t, err, ErrAlreadyDrawn)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, int64(1), f.countDraws(t, expo.ID, "13800001111"))

	assert.Contains(t, f.publisher.Keys(), EventDrawRecorded)
}

func TestDraw_ConcurrentSamePhoneRecordsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	expo := f.activeExhibition(t, "Expo1")
	settings := models.DrawSettings{WinRate: 1, Prizes: []models.Prize{{Name: "Gift", Weight: 1}}}

	const workers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
		others    []error
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.draws.Draw(ctx, expo.ID, "13800001111", settings)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case apperr.ReasonOf(err) == "drawn":
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, others)
	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, int64(1), f.countDraws(t, expo.ID, "13800001111"))
}

// blindDrawRepository never sees an existing draw, so only the unique index
// can stop a second insert.
type blindDrawRepository struct {
	repository.DrawRepository
}

func (blindDrawRepository) ExistsByExhibitionAndPhone(context.Context, *gorm.DB, uint, string) (bool, error) {
	return false, nil
}

func TestDraw_UniqueViolationIsAlreadyDrawn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	expo := f.activeExhibition(t, "Expo1")

	draws := NewDrawService(
		blindDrawRepository{repository.NewDrawRepository(f.db)},
		repository.NewExhibitionRepository(f.db),
		f.settings,
		lottery.NewEngine(lottery.NewSeededSource(3, 4)),
		nil,
	)

	_, err := draws.Draw(ctx, expo.ID, "13800001111", models.DrawSettings{})
	require.NoError(t, err)

	_, err = draws.Draw(ctx, expo.ID, "13800001111", models.DrawSettings{})
	assert.ErrorIs(t, err, ErrAlreadyDrawn)
	assert.Equal(t, int64(1), f.countDraws(t, expo.ID, "13800001111"))
}

func TestDraw_QuantityExhaustion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	expo := f.activeExhibition(t, "Expo1")
	settings := models.DrawSettings{WinRate: 1, Prizes: []models.Prize{{Name: "X", Weight: 1, Qty: intPtr(1)}}}

	first, err := f.draws.Draw(ctx, expo.ID, "13800000001", settings)
	require.NoError(t, err)
	assert.True(t, first.IsWin)
	assert.Equal(t, "X", first.Result)

	for _, phone := range []string{"13800000002", "13800000003"} {
		outcome, err := f.draws.Draw(ctx, expo.ID, phone, settings)
		require.NoError(t, err)
		assert.False(t, outcome.IsWin)
		assert.Equal(t, models.NoWinResult, outcome.Result)
	}
}

func TestDraw_QuantityIsPerExhibition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.activeExhibition(t, "Expo1")
	second, err := f.exhibitions.Create(ctx, "Expo2")
	require.NoError(t, err)
	settings := models.DrawSettings{WinRate: 1, Prizes: []models.Prize{{Name: "X", Weight: 1, Qty: intPtr(1)}}}

	_, err = f.draws.Draw(ctx, first.ID, "13800000001", settings)
	require.NoError(t, err)

	outcome, err := f.draws.Draw(ctx, second.ID, "13800000001", settings)
	require.NoError(t, err)
	assert.True(t, outcome.IsWin)
}

func TestDraw_ZeroWinRateNeverWins(t *testing.T) {
	f := newFixture(t)
	expo := f.activeExhibition(t, "Expo1")

	outcome, err := f.draws.Draw(context.Background(), expo.ID, "13800001111",
		models.DrawSettings{WinRate: 0, Prizes: []models.Prize{{Name: "Gift", Weight: 1}}})
	require.NoError(t, err)
	assert.False(t, outcome.IsWin)
	assert.Equal(t, models.NoWinResult, outcome.Result)
}

func TestDraw_UnknownExhibition(t *testing.T) {
	f := newFixture(t)

	_, err := f.draws.Draw(context.Background(), 99, "13800001111", models.DrawSettings{})
	assert.ErrorIs(t, err, ErrExhibitionNotFound)
}

func TestDrawForActive_RejectsBadPhone(t *testing.T) {
	f := newFixture(t)
	f.activeExhibition(t, "Expo1")

	for _, phone := range []string{"1234567890", "123456789012", "1380000111a", ""} {
		_, err := f.draws.DrawForActive(context.Background(), phone)
		assert.ErrorIs(t, err, ErrInvalidPhone, phone)
	}

	_, err := f.draws.DrawForActive(context.Background(), "12345678901")
	assert.NoError(t, err)
}

func TestDrawForActive_NoActiveExhibition(t *testing.T) {
	f := newFixture(t)

	_, err := f.draws.DrawForActive(context.Background(), "13800001111")
	assert.ErrorIs(t, err, ErrNoActiveExhibition)
}

func TestPreviewForActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	expo := f.activeExhibition(t, "Expo1")
	f.checkin(t, "Li Lei", "13800000001")

	_, err := f.draws.Draw(ctx, expo.ID, "13800000001", models.DrawSettings{})
	require.NoError(t, err)
	_, err = f.draws.Draw(ctx, expo.ID, "13800000002", models.DrawSettings{})
	require.NoError(t, err)

	rows, err := f.draws.PreviewForActive(ctx, 50)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "13800000002", rows[0].Phone)
	assert.Empty(t, rows[0].Name)
	assert.Equal(t, "13800000001", rows[1].Phone)
	assert.Equal(t, "Li Lei", rows[1].Name)

	rows, err = f.draws.PreviewForActive(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestDraw_PublishFailureDoesNotFailDraw(t *testing.T) {
	f := newFixture(t)
	expo := f.activeExhibition(t, "Expo1")
	f.publisher.failed = true

	_, err := f.draws.Draw(context.Background(), expo.ID, "13800001111", models.DrawSettings{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.countDraws(t, expo.ID, "13800001111"))
}
