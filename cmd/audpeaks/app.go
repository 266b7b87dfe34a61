// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ik5/audpeaks"
	"github.com/ik5/audpeaks/audio"
	"github.com/ik5/audpeaks/cache"
	"github.com/ik5/audpeaks/config"
	"github.com/ik5/audpeaks/display"
	"github.com/ik5/audpeaks/logging"
	"github.com/ik5/audpeaks/store"
	"github.com/ik5/audpeaks/waveform"
)

// app wires the library, the cache and the generator together.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	registry *audio.Registry
	library  *store.Library
	blobs    *store.BlobStore
	cache    *cache.Cache
	gen      *waveform.Generator
}

func newApp(configPath string, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Writer: logOut})
	if err != nil {
		return nil, err
	}

	for _, path := range []string{cfg.LibraryDB, cfg.CacheDB} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	library, err := store.OpenLibrary(cfg.LibraryDB)
	if err != nil {
		return nil, err
	}
	blobs, err := store.OpenBlobStore(cfg.CacheDB)
	if err != nil {
		library.Close()
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		registry: audpeaks.NewRegistry(),
		library:  library,
		blobs:    blobs,
		cache:    cache.New(blobs),
	}

	g := cfg.Generator
	a.gen = waveform.New(library, a.registry, a.cache,
		waveform.WithLogger(log),
		waveform.WithPublishEvery(g.PublishEvery),
		waveform.WithPublishInterval(g.PublishInterval),
		waveform.WithBufferFrames(g.BufferFrames),
		waveform.WithSubscriberBuffer(g.SubscriberBuffer),
		waveform.WithWorkers(g.Workers),
	)

	return a, nil
}

func (a *app) Close() error {
	return errors.Join(a.gen.Close(), a.blobs.Close(), a.library.Close())
}

// addFile probes path and records it in the library.
func (a *app) addFile(ctx context.Context, path string) (store.Track, error) {
	src, err := a.registry.OpenStream(path)
	if err != nil {
		return store.Track{}, err
	}
	info := src.Info()
	src.Close()

	base := filepath.Base(path)
	return a.library.AddTrack(ctx, store.Track{
		Path:       path,
		Title:      base[:len(base)-len(filepath.Ext(base))],
		Format:     info.Format,
		SampleRate: info.SampleRate,
		Channels:   info.Channels,
		Frames:     info.Frames,
	})
}

func (a *app) importCmd(ctx context.Context, args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("import", flag.ContinueOnError)
	warm := flags.Bool("warm", false, "generate and cache waveforms of imported tracks")
	if err := flags.Parse(args); err != nil || flags.NArg() != 1 {
		return errUsage
	}

	var ids []string
	skipped := 0
	err := filepath.WalkDir(flags.Arg(0), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !a.registry.Supports(filepath.Ext(path)) {
			return nil
		}

		track, err := a.addFile(ctx, path)
		if err != nil {
			a.log.Warn().Err(err).Str("path", path).Msg("skipping file")
			skipped++
			return nil
		}
		ids = append(ids, track.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	fmt.Fprintf(stdout, "imported %d tracks, skipped %d\n", len(ids), skipped)

	if *warm {
		if err := a.gen.Warm(ctx, ids); err != nil {
			return fmt.Errorf("warm: %w", err)
		}
		fmt.Fprintf(stdout, "cached %d waveforms\n", len(ids))
	}
	return nil
}

// resolveArg accepts a track id or a file path, importing the file when
// needed.
func (a *app) resolveArg(ctx context.Context, arg string) (string, error) {
	if _, found, err := a.library.Track(ctx, arg); err != nil || found {
		return arg, err
	}

	if _, err := os.Stat(arg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", waveform.ErrTrackNotFound, arg)
		}
		return "", fmt.Errorf("%w", err)
	}

	track, err := a.addFile(ctx, arg)
	if err != nil {
		return "", err
	}
	return track.ID, nil
}

func (a *app) show(ctx context.Context, arg string, width, rows int, stdout, stderr io.Writer) error {
	trackID, err := a.resolveArg(ctx, arg)
	if err != nil {
		return err
	}

	surface := display.NewSurface(display.Layout{
		Width:    float64(width),
		BarWidth: a.cfg.Display.BarWidth,
		MinGap:   a.cfg.Display.MinGap,
	}, display.WithDebounce(a.cfg.Display.Debounce))
	defer surface.Close()
	surface.Load(trackID)

	sub, err := a.gen.Request(ctx, trackID)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(stderr)
			return ctx.Err()
		case ev, ok := <-sub.C:
			if !ok {
				return waveform.ErrClosed
			}
			surface.Apply(ev)
			if !ev.Terminal() {
				fmt.Fprintf(stderr, "\r%s", progressLine(ev.Completion, ev.Count, width))
				continue
			}

			fmt.Fprint(stderr, "\r\033[K")
			snap := surface.Flush()
			fmt.Fprintln(stdout, renderWaveform(snap, width, rows))
			fmt.Fprintln(stdout, statusLine(snap, ev.FromCache))
			return snap.Err
		}
	}
}

func (a *app) list(ctx context.Context, stdout io.Writer) error {
	tracks, err := a.library.Tracks(ctx)
	if err != nil {
		return err
	}

	for _, t := range tracks {
		info := audio.Info{SampleRate: t.SampleRate, Frames: t.Frames}
		fmt.Fprintf(stdout, "%s  %-5s %7.1fs  %s\n", t.ID, t.Format, info.Seconds(), t.Path)
	}
	return nil
}

func (a *app) clearCache(ctx context.Context, stdout io.Writer) error {
	n, err := a.cache.Clear(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "removed %d cached waveforms\n", n)
	return nil
}
