package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/folbricht/tablesplit"
)

// cfg is the process-wide config instance: tablesplit.DefaultConfig()
// overridden by whatever's in the config file.
var cfg = tablesplit.DefaultConfig()

var cfgFile string

func configFile() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(u.HomeDir, ".config", "tablesplit", "config.json"), nil
}

// loadConfigIfPresent looks for the config file and, if present, decodes
// it over cfg. Fields absent from the file keep their DefaultConfig
// values.
func loadConfigIfPresent() error {
	filename, err := configFile()
	if err != nil {
		return err
	}
	f, err := os.Open(filename)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return errors.Wrap(err, "reading "+filename)
	}
	return cfg.Validate()
}

// showConfig prints the effective configuration, and optionally saves it
// to the config file so it can be hand-edited from there on.
func showConfig(cmd *cobra.Command, write bool) error {
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if !write {
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	}
	filename, err := configFile()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(b); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote config to", filename)
	return nil
}
