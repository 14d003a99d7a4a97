// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcmultisig/internal/log"
	"github.com/btcsuite/btcmultisig/internal/version"
	"github.com/btcsuite/btcmultisig/network"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultNetwork     = "bitcoin"
	defaultLogFilename = "msigverify.log"
	defaultLogLevel    = "info"
	defaultSigCacheMax = 1000
)

// config defines the configuration options for msigverify.
//
// See loadConfig for details on the configuration load process.
type config struct {
	ShowVersion bool     `short:"V" long:"version" description:"Display version information and exit"`
	Network     string   `short:"n" long:"network" description:"Network the transaction belongs to"`
	TestNet     bool     `long:"testnet" description:"Use the test network of the selected network's chain"`
	Tx          string   `short:"t" long:"tx" description:"Hex encoded transaction to verify"`
	PrevOuts    []string `short:"p" long:"prevout" description:"Spent output of each input in input order as value:pkscripthex (repeatable)"`
	Input       int      `short:"i" long:"input" description:"Index of the input to verify; -1 verifies every input"`
	PubKeys     []string `short:"k" long:"pubkey" description:"Hex encoded public key to check for a signature (repeatable)"`
	SigIndex    int      `short:"s" long:"sigindex" description:"Script position of the key to check for a signature; -1 for any"`
	SigCacheMax uint     `long:"sigcachemaxsize" description:"The maximum number of entries in the signature verification cache"`
	Dump        bool     `long:"dump" description:"Dump the parsed inputs"`
	LogDir      string   `long:"logdir" description:"Directory to log output; logs go to stderr only when unset"`
	DebugLevel  string   `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`

	net      *network.Network
	tx       *wire.MsgTx
	prevOuts []*wire.TxOut
	pubKeys  [][]byte
}

// parsePrevOut decodes a spent output given as value:pkscripthex.  The value
// is in satoshis.
func parsePrevOut(s string) (*wire.TxOut, error) {
	fields := strings.SplitN(s, ":", 2)
	if len(fields) != 2 {
		return nil, fmt.Errorf("spent output %q is not value:pkscript", s)
	}
	value, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid spent output value %q: %w",
			fields[0], err)
	}
	pkScript, err := hex.DecodeString(fields[1])
	if err != nil {
		return nil, fmt.Errorf("invalid spent output script: %w", err)
	}
	return wire.NewTxOut(value, pkScript), nil
}

// parseTx decodes a hex encoded transaction.
func parseTx(s string) (*wire.MsgTx, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid transaction hex: %w", err)
	}
	tx, err := btcutil.NewTxFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("unable to decode transaction: %w", err)
	}
	return tx.MsgTx(), nil
}

// loadConfig initializes and parses the config using command line options.
func loadConfig() (*config, []string, error) {
	// Default config.
	cfg := config{
		Network:     defaultNetwork,
		Input:       -1,
		SigIndex:    -1,
		SigCacheMax: defaultSigCacheMax,
		DebugLevel:  defaultLogLevel,
	}

	// Parse command line options.
	parser := flags.NewParser(&cfg, flags.Default)
	remainingArgs, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		}
		return nil, nil, err
	}

	// Show the version and exit if the version flag was specified.
	if cfg.ShowVersion {
		fmt.Println("msigverify version", version.String())
		os.Exit(0)
	}

	funcName := "loadConfig"
	cfg.net, err = network.ByName(cfg.Network)
	if err != nil {
		err := fmt.Errorf("%s: %w -- supported networks %v", funcName,
			err, networkNames())
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}
	if cfg.TestNet {
		cfg.net = cfg.net.Test()
	}

	if cfg.LogDir != "" {
		logFile := filepath.Join(cleanAndExpandPath(cfg.LogDir),
			defaultLogFilename)
		if err := log.InitLogRotator(logFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return nil, nil, err
		}
	}
	if err := log.ParseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		err := fmt.Errorf("%s: %w", funcName, err)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, nil, err
	}

	if cfg.Tx == "" {
		err := fmt.Errorf("%s: a transaction must be given with --tx",
			funcName)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, nil, err
	}
	cfg.tx, err = parseTx(cfg.Tx)
	if err != nil {
		err := fmt.Errorf("%s: %w", funcName, err)
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}

	if len(cfg.PrevOuts) > len(cfg.tx.TxIn) {
		err := fmt.Errorf("%s: %d spent outputs given for %d inputs",
			funcName, len(cfg.PrevOuts), len(cfg.tx.TxIn))
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}
	for _, s := range cfg.PrevOuts {
		prevOut, err := parsePrevOut(s)
		if err != nil {
			err := fmt.Errorf("%s: %w", funcName, err)
			fmt.Fprintln(os.Stderr, err)
			return nil, nil, err
		}
		cfg.prevOuts = append(cfg.prevOuts, prevOut)
	}

	if cfg.Input < -1 || cfg.Input >= len(cfg.tx.TxIn) {
		err := fmt.Errorf("%s: input %d is out of range -- the "+
			"transaction has %d inputs", funcName, cfg.Input,
			len(cfg.tx.TxIn))
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}

	for _, s := range cfg.PubKeys {
		key, err := hex.DecodeString(s)
		if err != nil {
			err := fmt.Errorf("%s: invalid public key %q: %w",
				funcName, s, err)
			fmt.Fprintln(os.Stderr, err)
			return nil, nil, err
		}
		cfg.pubKeys = append(cfg.pubKeys, key)
	}

	return &cfg, remainingArgs, nil
}

// networkNames returns the names of every supported network.
func networkNames() []string {
	var names []string
	for _, net := range network.All() {
		names = append(names, net.Name)
	}
	return names
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(btcutil.AppDataDir("msigverify", false))
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}
