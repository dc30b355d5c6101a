// iconmapsync adds the icon names for new texture IDs from the crafting spreadsheet to IconMap.js.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ErikKalkoken/iconmapsync/internal/config"
	"github.com/ErikKalkoken/iconmapsync/internal/httptransport"
	"github.com/ErikKalkoken/iconmapsync/internal/iconsync"
	"github.com/ErikKalkoken/iconmapsync/internal/sheet"
	"github.com/ErikKalkoken/iconmapsync/internal/singleinstance"
	"github.com/ErikKalkoken/iconmapsync/internal/wowhead"
)

const lockTimeout = 3 * time.Second

func main() {
	flag.Parse()
	slog.SetLogLoggerLevel(levelFlag.value)
	ad := newAppDirs()
	if *showDirsFlag {
		fmt.Printf("Config: %s\n", ad.config)
		fmt.Printf("Logs: %s\n", ad.log)
		return
	}
	if *logFileFlag {
		fn, err := ad.initLogFile()
		if err != nil {
			log.Fatal(err)
		}
		log.SetOutput(&lumberjack.Logger{
			Filename:   fn,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		})
	}
	if err := run(ad); err != nil {
		slog.Error("Sync failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run(ad appDirs) error {
	cfg, err := loadConfig(ad)
	if err != nil {
		return err
	}
	release, err := singleinstance.Acquire(appName, lockTimeout)
	if err != nil {
		return err
	}
	defer release()

	sheetClient := sheet.NewClient(cfg.SheetRetries, cfg.Delay)
	sheetClient.HTTPClient.Timeout = cfg.Timeout
	sheetClient.ResponseLogHook = logResponse
	lookupClient := &http.Client{
		Transport: httptransport.LoggedTransport{},
		Timeout:   cfg.Timeout,
	}

	s := iconsync.New(
		sheet.NewFetcher(sheetClient, cfg.SheetURL, cfg.UserAgent),
		wowhead.NewClient(lookupClient, cfg.LookupBaseURL, cfg.UserAgent),
		os.Stdout,
	)
	s.Column = cfg.Column
	s.Delay = cfg.Delay
	s.IconMapPath = cfg.IconMapPath
	_, err = s.Run(context.Background())
	return err
}

// loadConfig returns the config for this run.
// Values from a config file override the defaults and flags override both.
// Without the config flag the config file in the user's config directory is used when it exists.
func loadConfig(ad appDirs) (config.Config, error) {
	cfg := config.Default()
	path := *configFlag
	if path == "" {
		p, found, err := ad.configFile()
		if err != nil {
			return cfg, err
		}
		if found {
			path = p
		}
	}
	if path != "" {
		c, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = c
		slog.Info("Config file loaded", "path", path)
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
