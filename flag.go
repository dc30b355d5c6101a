package main

import (
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ErikKalkoken/iconmapsync/internal/config"
)

type logLevelFlag struct {
	value slog.Level
}

func (l *logLevelFlag) String() string {
	return l.value.String()
}

func (l *logLevelFlag) Set(value string) error {
	m := map[string]slog.Level{"DEBUG": slog.LevelDebug, "INFO": slog.LevelInfo, "WARN": slog.LevelWarn, "ERROR": slog.LevelError}
	v, ok := m[strings.ToUpper(value)]
	if !ok {
		return fmt.Errorf("unknown log level")
	}
	l.value = v
	return nil
}

// defined flags
var (
	levelFlag    logLevelFlag
	configFlag   = flag.String("config", "", "path to a YAML config file")
	delayFlag    = flag.Duration("delay", config.DefaultDelay, "wait time after each icon lookup")
	iconMapFlag  = flag.String("iconmap", config.DefaultIconMapPath, "path to the icon map data file")
	logFileFlag  = flag.Bool("logfile", false, "Write logs to a file instead of the console")
	sheetFlag    = flag.String("sheet", config.DefaultSheetURL, "URL of the CSV export of the spreadsheet")
	showDirsFlag = flag.Bool("show-dirs", false, "Show directories where logs and config are stored")
)

func init() {
	levelFlag.value = slog.LevelWarn
	flag.Var(&levelFlag, "loglevel", "set log level")
}

// applyFlags overrides the values of c with all flags set on the command line.
func applyFlags(c *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "delay":
			c.Delay = *delayFlag
		case "iconmap":
			c.IconMapPath = *iconMapFlag
		case "sheet":
			c.SheetURL = *sheetFlag
		}
	})
}
