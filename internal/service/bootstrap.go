package service

import "context"

// Bootstrap prepares a fresh or existing store for serving: it seeds a default
// exhibition and draw settings when missing, then makes sure one exhibition is
// active. Running it again changes nothing.
func Bootstrap(ctx context.Context, exhibitions ExhibitionService, settings SettingsService, defaultName string, defaultWinRate float64) error {
	if err := exhibitions.SeedDefault(ctx, defaultName); err != nil {
		return err
	}
	if err := settings.SeedDefault(ctx, defaultWinRate); err != nil {
		return err
	}
	return exhibitions.EnsureActive(ctx)
}
