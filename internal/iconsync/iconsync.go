// Package iconsync syncs the icon map data file with the texture IDs of the spreadsheet.
package iconsync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ErikKalkoken/iconmapsync/internal/iconmap"
	"github.com/ErikKalkoken/iconmapsync/internal/sheet"
	"github.com/ErikKalkoken/iconmapsync/internal/wowhead"
)

// SheetFetcher defines a service which returns the CSV document of the spreadsheet.
type SheetFetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// IconResolver defines a service which looks up the icon name for a texture ID.
// It returns [wowhead.ErrNotFound] when there is no icon for an ID.
type IconResolver interface {
	IconName(ctx context.Context, id int) (string, error)
}

// Result reports the outcome of a sync run.
type Result struct {
	SheetIDs int   // unique texture IDs in the sheet
	Existing int   // entries in the data file before the run
	Added    int   // entries added to the data file
	NotFound []int // IDs without an icon
	Failed   []int // IDs where the lookup failed
}

// Service syncs an icon map data file.
type Service struct {
	// Column of the spreadsheet with the texture IDs.
	Column int
	// Delay after every lookup.
	Delay time.Duration
	// Path to the icon map data file.
	IconMapPath string

	fetcher  SheetFetcher
	out      io.Writer
	resolver IconResolver
}

// New returns a new Service which reports progress to out.
// When out is nil, progress is reported to stdout.
func New(fetcher SheetFetcher, resolver IconResolver, out io.Writer) *Service {
	if out == nil {
		out = os.Stdout
	}
	s := &Service{
		fetcher:  fetcher,
		out:      out,
		resolver: resolver,
	}
	return s
}

// Run executes a sync run.
// The data file is only written when new entries have been found.
// Failed lookups for single IDs are reported, but do not abort the run.
func (s *Service) Run(ctx context.Context) (Result, error) {
	var r Result
	fileName := filepath.Base(s.IconMapPath)

	s.printf("[*] Downloading Google Sheet CSV...\n")
	data, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return r, err
	}
	ids, err := sheet.ExtractTextureIDs(bytes.NewReader(data), s.Column)
	if err != nil {
		return r, err
	}
	r.SheetIDs = len(ids)
	s.printf("[*] Found %s unique texture IDs in sheet.\n", humanize.Comma(int64(len(ids))))

	existing, err := iconmap.Load(s.IconMapPath)
	if err != nil {
		return r, err
	}
	r.Existing = len(existing)
	s.printf("[*] Loaded %s existing entries from %s\n", humanize.Comma(int64(len(existing))), fileName)

	added, notFound, failed, err := s.resolve(ctx, ids, existing)
	r.NotFound = notFound
	r.Failed = failed
	if err != nil {
		return r, fmt.Errorf("resolve icon names: %w", err)
	}
	if len(added) == 0 {
		s.printf("\n✅ No new entries needed, everything already exists.\n")
		return r, nil
	}
	if err := iconmap.AddEntries(s.IconMapPath, added); err != nil {
		return r, err
	}
	r.Added = len(added)
	s.printf("\n✅ Added %s new entries to %s\n", humanize.Comma(int64(len(added))), fileName)
	slog.Info("Icon map updated", "path", s.IconMapPath, "added", len(added), "notFound", len(notFound), "failed", len(failed))
	return r, nil
}

// Resolve looks up the icon names for all IDs, which are not yet in existing.
// It returns the newly found entries.
func (s *Service) Resolve(ctx context.Context, ids []int, existing iconmap.Map) (iconmap.Map, error) {
	added, _, _, err := s.resolve(ctx, ids, existing)
	return added, err
}

// resolve looks up icon names one by one and waits after each attempt.
// It only returns an error when the context was canceled.
func (s *Service) resolve(ctx context.Context, ids []int, existing iconmap.Map) (added iconmap.Map, notFound, failed []int, err error) {
	added = make(iconmap.Map)
	for _, id := range ids {
		if _, found := existing[id]; found {
			continue
		}
		if _, found := added[id]; found {
			continue
		}
		name, err := s.resolver.IconName(ctx, id)
		if errors.Is(err, wowhead.ErrNotFound) {
			s.printf("[!] %d → NOT_FOUND\n", id)
			notFound = append(notFound, id)
		} else if err != nil {
			s.printf("[!] %d → ERROR: %s\n", id, err)
			slog.Warn("Icon lookup failed", "id", id, "error", err)
			failed = append(failed, id)
		} else {
			added[id] = name
			s.printf("[+] %d = \"%s\"\n", id, name)
		}
		if err := wait(ctx, s.Delay); err != nil {
			return added, notFound, failed, err
		}
	}
	return added, notFound, failed, nil
}

func (s *Service) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

// wait blocks for the duration d or until the context is canceled.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
