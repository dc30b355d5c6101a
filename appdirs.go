package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	xappdirs "github.com/chasinglogic/appdirs"
)

const (
	appName        = "iconmapsync"
	logFileName    = "iconmapsync.log"
	configFileName = "iconmapsync.yaml"
)

// appDirs represents the app's local directories for storing logs etc.
type appDirs struct {
	config string
	log    string
}

func newAppDirs() appDirs {
	ad := xappdirs.New(appName)
	x := appDirs{
		config: ad.UserConfig(),
		log:    ad.UserLog(),
	}
	return x
}

func (ad appDirs) initLogFile() (string, error) {
	if err := os.MkdirAll(ad.log, os.ModePerm); err != nil {
		return "", err
	}
	return filepath.Join(ad.log, logFileName), nil
}

// configFile returns the path to the user's config file and reports whether it exists.
func (ad appDirs) configFile() (string, bool, error) {
	p := filepath.Join(ad.config, configFileName)
	_, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return p, false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("config file: %w", err)
	}
	return p, true, nil
}
