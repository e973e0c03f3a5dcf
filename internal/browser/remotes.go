package browser

import (
	"context"
	"fmt"

	"github.com/rcpanes/rcpanes/internal/config"
	"github.com/rcpanes/rcpanes/internal/format"
	"github.com/rcpanes/rcpanes/internal/logging"
	"github.com/rcpanes/rcpanes/internal/models"
)

// RemoteSource lists the server's remotes and their disk usage.
type RemoteSource interface {
	ListRemotes(ctx context.Context) ([]string, error)
	About(ctx context.Context, fs string) (*models.AboutResponse, error)
}

// RemoteOption is one entry of the remote chooser.
type RemoteOption struct {
	Name  string
	Label string
}

// RemoteOptions lists the remotes in server order. Presets with disk queries
// enabled get a free-space label; when that query fails the plain name is
// used.
func RemoteOptions(ctx context.Context, src RemoteSource, cfg *config.Config, logger *logging.Logger) ([]RemoteOption, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	names, err := src.ListRemotes(ctx)
	if err != nil {
		return nil, err
	}

	options := make([]RemoteOption, 0, len(names))
	for _, name := range names {
		option := RemoteOption{Name: name, Label: name}
		preset := cfg.Preset(name)
		if preset.CanQueryDisk {
			about, err := src.About(ctx, RootPath(name, preset.PathToQueryDisk))
			switch {
			case err != nil:
				logger.Warn().Err(err).Str("remote", name).Msg("Disk query failed")
			case about.Free == nil:
				logger.Debug().Str("remote", name).Msg("Remote does not report free space")
			default:
				option.Label = fmt.Sprintf("%s (%s left)", name, format.HumanReadable(*about.Free, ""))
			}
		}
		options = append(options, option)
	}
	return options, nil
}
