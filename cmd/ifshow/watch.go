package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"example.com/ifshow/pkg"
	"example.com/ifshow/pkg/netif"
)

var watchCmd = &cobra.Command{
	Use:   "watch [interfaces...]",
	Short: "Redisplay interfaces whenever they change",
	Long: `Watch the interface directories in sysfs and print a fresh snapshot
after each burst of changes. Output is only repeated when it differs from
the previous snapshot.

Examples:
  ifshow watch                # Interfaces that are up
  ifshow watch -a --format table`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	host := netif.NewHost(cfg.HostOptions())
	defer host.Close()

	sel := selection{names: args, all: showAll, drivers: showDrivers}
	var last []byte
	refresh := func() {
		records, err := snapshot(ctx, host, cfg, sel)
		if err != nil {
			pkg.WithError(err).Error("snapshot failed")
			return
		}
		var buf bytes.Buffer
		if err := render(&buf, records, showFormat, showVerbose); err != nil {
			pkg.Error("render failed: %v", err)
			return
		}
		if bytes.Equal(buf.Bytes(), last) {
			return
		}
		last = buf.Bytes()
		pkg.Info("=== Interface update (%s) ===", time.Now().Format("15:04:05"))
		os.Stdout.Write(last)
	}

	refresh()

	mon, err := newNetMonitor(cfg.Watch.Paths, cfg.Watch.Debounce, refresh)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %v", err)
	}
	defer mon.close()
	mon.run(ctx)
	return nil
}

// netMonitor calls refresh after filesystem activity on the watched
// paths has been quiet for the debounce period.
type netMonitor struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	refresh  func()
}

func newNetMonitor(paths []string, debounce time.Duration, refresh func()) (*netMonitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	added := 0
	for _, p := range paths {
		if err := watcher.Add(p); err != nil {
			pkg.Warn("failed to watch %s: %v", p, err)
			continue
		}
		added++
	}
	if added == 0 {
		watcher.Close()
		return nil, fmt.Errorf("none of %v can be watched", paths)
	}

	return &netMonitor{watcher: watcher, debounce: debounce, refresh: refresh}, nil
}

// run processes events until ctx is done or the watcher is closed.
func (m *netMonitor) run(ctx context.Context) {
	timer := time.NewTimer(m.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			pkg.WithFields(logrus.Fields{
				"path": event.Name,
				"op":   event.Op.String(),
			}).Debug("interface change detected")
			timer.Reset(m.debounce)
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			pkg.WithError(err).Error("file system monitor error")
		case <-timer.C:
			m.refresh()
		case <-ctx.Done():
			return
		}
	}
}

func (m *netMonitor) close() error {
	return m.watcher.Close()
}
