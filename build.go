package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ntx-trading/ntxlocale/config"
	"github.com/ntx-trading/ntxlocale/i18n"
	"github.com/ntx-trading/ntxlocale/localetag"
	"github.com/ntx-trading/ntxlocale/lockfile"
)

// ---------------------------------------------------------------------------
// build (all config targets, incremental)
// ---------------------------------------------------------------------------

func newBuildCmd() *cobra.Command {
	var (
		force    bool
		watch    bool
		jobs     int
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Localize every target in .ntxlocale.yaml",
		Long: `Write one localized output per target and language declared in
.ntxlocale.yaml.

Outputs whose input, language and settings are unchanged since the last
build (as recorded in .ntxlocale.lock) are skipped unless --force is given.
With --watch, inputs are rebuilt whenever they change until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			if err := runBuild(ctx, cfg, force, jobs); err != nil {
				if !watch {
					return err
				}
				logError("%v", err)
			}
			if !watch {
				return nil
			}

			files, err := watchedFiles(cfg)
			if err != nil {
				return err
			}
			w, err := newInputWatcher(files, debounce, func(ctx context.Context) []string {
				cfg, err := loadProjectConfig()
				if err != nil {
					logError("%v", err)
					return nil
				}
				if err := runBuild(ctx, cfg, false, jobs); err != nil {
					logError("%v", err)
				}
				files, err := watchedFiles(cfg)
				if err != nil {
					logError("%v", err)
					return nil
				}
				return files
			})
			if err != nil {
				return err
			}
			logInfo(i18n.N("Watching %d file for changes (Ctrl+C to stop)", "Watching %d files for changes (Ctrl+C to stop)", len(files)), len(files))
			return w.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Rebuild every output, ignoring the lock file")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Rebuild when inputs change")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "Targets built in parallel")
	cmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "Delay before rebuilding after a change (with --watch)")

	return cmd
}

// loadProjectConfig loads .ntxlocale.yaml, which build requires.
func loadProjectConfig() (*config.File, error) {
	cfg, err := config.LoadFile(rootDir)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf(i18n.T("no %s found in %s"), config.FileName, rootDir)
	}
	applyOverrides(cfg)
	return cfg, nil
}

func runBuild(ctx context.Context, cfg *config.File, force bool, jobs int) error {
	if len(cfg.Targets) == 0 {
		logWarning(i18n.T("No targets declared in %s"), config.FileName)
		return nil
	}

	lock, err := lockfile.Load(rootDir)
	if err != nil {
		return err
	}

	b := &builder{
		root:  rootDir,
		cfg:   cfg,
		proc:  cfg.Processor(),
		lock:  lock,
		force: force,
		jobs:  jobs,
	}
	stats, err := b.run(ctx)
	if err != nil {
		return err
	}

	logSuccess("%s, %s",
		fmt.Sprintf(i18n.N("%d output written", "%d outputs written", stats.written), stats.written),
		fmt.Sprintf(i18n.N("%d up to date", "%d up to date", stats.skipped), stats.skipped))
	logInfo(i18n.T("Lock file: %s"), lock.Summary())
	return nil
}

// ---------------------------------------------------------------------------
// Builder
// ---------------------------------------------------------------------------

type builder struct {
	root  string
	cfg   *config.File
	proc  *localetag.Processor
	lock  *lockfile.LockFile
	force bool
	jobs  int
}

type buildStats struct {
	mu      sync.Mutex
	written int
	skipped int
}

func (s *buildStats) add(written, skipped int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.written += written
	s.skipped += skipped
}

// run builds all targets, then drops lock entries of removed targets and
// saves the lock file. The lock file is saved even when a target fails so
// finished outputs are not rebuilt.
func (b *builder) run(ctx context.Context) (*buildStats, error) {
	absRoot, err := filepath.Abs(b.root)
	if err != nil {
		return nil, err
	}
	targets, err := b.cfg.Resolve(absRoot)
	if err != nil {
		return nil, err
	}

	stats := &buildStats{}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(b.jobs, 1))
	for _, rt := range targets {
		g.Go(func() error {
			return b.buildTarget(ctx, absRoot, rt, stats)
		})
	}
	buildErr := g.Wait()

	if buildErr == nil {
		names := make([]string, len(targets))
		for i, rt := range targets {
			names[i] = rt.Target.Name
		}
		b.lock.Prune(names)
	}
	if err := b.lock.Save(); err != nil {
		return stats, err
	}
	return stats, buildErr
}

func (b *builder) buildTarget(ctx context.Context, absRoot string, rt config.ResolvedTarget, stats *buildStats) error {
	name := rt.Target.Name

	data, err := os.ReadFile(rt.AbsInput)
	if err != nil {
		return fmt.Errorf("target %q: reading %s: %w", name, rt.AbsInput, err)
	}
	doc, err := parseDocument(data, rt.Target.Format)
	if err != nil {
		return fmt.Errorf("target %q: %s: %w", name, rt.AbsInput, err)
	}

	settings := outputSettings(b.proc, rt.Target.Format)
	keys := make([]string, 0, len(rt.Languages))
	for _, lang := range rt.Languages {
		if err := ctx.Err(); err != nil {
			return err
		}

		out := rt.OutputPath(lang)
		key := lockfile.OutputKey(absRoot, out)
		keys = append(keys, key)
		content := lockfile.OutputContent(data, lang, settings)

		if !b.force && fileExists(out) && !b.lock.IsChanged(name, key, content) {
			stats.add(0, 1)
			continue
		}

		localized, err := doc.localize(b.proc, lang)
		if err != nil {
			return fmt.Errorf("target %q: %w", name, err)
		}
		if err := writeOutput(out, localized); err != nil {
			return fmt.Errorf("target %q: %w", name, err)
		}
		b.lock.Update(name, key, content)
		stats.add(1, 0)
		logSuccess(i18n.T("Wrote %s"), key)
	}

	b.lock.Clean(name, keys)
	return nil
}

// outputSettings identifies the options besides input and language that
// affect an output: the processor options and the payload format.
func outputSettings(p *localetag.Processor, format string) string {
	return fmt.Sprintf("mode=%s control=%t format=%s", p.Mode(), p.StripsControlTags(), format)
}

// watchedFiles returns the config file and every target input.
func watchedFiles(cfg *config.File) ([]string, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, err
	}
	targets, err := cfg.Resolve(absRoot)
	if err != nil {
		return nil, err
	}
	files := []string{filepath.Join(absRoot, config.FileName)}
	for _, rt := range targets {
		files = append(files, rt.AbsInput)
	}
	return files, nil
}
