package browser

import (
	"context"
	"errors"
	"testing"

	"github.com/rcpanes/rcpanes/internal/config"
	"github.com/rcpanes/rcpanes/internal/models"
)

type fakeRemotes struct {
	names   []string
	free    map[string]int64
	aboutFs []string
	err     error
}

func (f *fakeRemotes) ListRemotes(ctx context.Context) ([]string, error) {
	return f.names, f.err
}

func (f *fakeRemotes) About(ctx context.Context, fs string) (*models.AboutResponse, error) {
	f.aboutFs = append(f.aboutFs, fs)
	free, ok := f.free[fs]
	if !ok {
		return nil, errors.New("not supported")
	}
	return &models.AboutResponse{Free: &free}, nil
}

func TestRemoteOptions(t *testing.T) {
	cfg := config.New()
	cfg.Remotes["gdrive"] = config.RemotePreset{CanQueryDisk: true}
	cfg.Remotes["s3"] = config.RemotePreset{CanQueryDisk: true, PathToQueryDisk: "bucket"}
	cfg.Remotes["box"] = config.RemotePreset{CanQueryDisk: false}

	src := &fakeRemotes{
		names: []string{"gdrive", "box", "s3", "local"},
		free:  map[string]int64{"gdrive:/": 5 * 1024 * 1024 * 1024},
	}

	opts, err := RemoteOptions(context.Background(), src, cfg, nil)
	if err != nil {
		t.Fatalf("RemoteOptions failed: %v", err)
	}

	want := []RemoteOption{
		{Name: "gdrive", Label: "gdrive (5.00 GB left)"},
		{Name: "box", Label: "box"},
		{Name: "s3", Label: "s3"},
		{Name: "local", Label: "local"},
	}
	if len(opts) != len(want) {
		t.Fatalf("Got %v, want %v", opts, want)
	}
	for i := range want {
		if opts[i] != want[i] {
			t.Errorf("Option %d = %+v, want %+v", i, opts[i], want[i])
		}
	}

	if len(src.aboutFs) != 2 || src.aboutFs[0] != "gdrive:/" || src.aboutFs[1] != "s3:/bucket" {
		t.Errorf("Unexpected disk queries %v", src.aboutFs)
	}
}

func TestRemoteOptionsListFailure(t *testing.T) {
	src := &fakeRemotes{err: errors.New("connection refused")}
	if _, err := RemoteOptions(context.Background(), src, config.New(), nil); err == nil {
		t.Error("Expected error")
	}
}
