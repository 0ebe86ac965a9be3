// Package fetcher downloads package artifacts and stages their raw
// bytes in the package's guarded data slot.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openbangla/repoindex/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// concurrent downloads per batch
const fetchLimit = 4

// Fetcher downloads package data over HTTP
type Fetcher struct {
	client *http.Client
}

// New creates a Fetcher. A nil client selects a default with a
// five-minute timeout.
func New(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Fetcher{client: client}
}

// Fetch downloads one package's artifact and stores the bytes in its
// data slot.
func (f *Fetcher) Fetch(ctx context.Context, pkg *models.Package) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pkg.DownloadURL(), nil)
	if err != nil {
		return &models.IndexError{Type: models.ErrFetch, Package: pkg.FileName(), Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return &models.IndexError{Type: models.ErrFetch, Package: pkg.FileName(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &models.IndexError{
			Type:    models.ErrFetch,
			Package: pkg.FileName(),
			Err:     fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &models.IndexError{Type: models.ErrFetch, Package: pkg.FileName(), Err: err}
	}

	pkg.SetData(data)
	return nil
}

// FetchAll downloads a batch of packages with bounded concurrency.
// Per-package failures are logged and skipped; the batch keeps going
// so a partially available pool still yields a partial index.
func (f *Fetcher) FetchAll(ctx context.Context, packages []*models.Package) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchLimit)

	for _, pkg := range packages {
		pkg := pkg
		g.Go(func() error {
			if err := f.Fetch(ctx, pkg); err != nil {
				logrus.Warnf("Failed to download %s: %v", pkg.DownloadURL(), err)
				return nil
			}
			logrus.Debugf("Downloaded %s (%d bytes)", pkg.FileName(), len(pkg.Data()))
			return nil
		})
	}

	return g.Wait()
}
