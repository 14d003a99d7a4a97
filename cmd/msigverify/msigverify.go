// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcmultisig/internal/log"
	"github.com/btcsuite/btcmultisig/sigscript"
	"github.com/btcsuite/btcmultisig/verify"
	"github.com/davecgh/go-spew/spew"
)

// inputReport writes the signature state of one input.
func inputReport(w io.Writer, cfg *config, v *verify.Verifier,
	tx *wire.MsgTx, idx int) error {

	parsed, err := v.Parse(tx, idx, cfg.prevOuts)
	if err != nil {
		return fmt.Errorf("input %d: %w", idx, err)
	}
	fmt.Fprintf(w, "input %d: %v, %d of %d signatures, %d placeholders\n",
		idx, parsed.ScriptType, parsed.SignatureCount(),
		parsed.Threshold, parsed.PlaceholderCount())
	if cfg.Dump {
		spew.Fdump(w, parsed)
	}

	results, err := v.ResolveSlots(tx, idx, cfg.prevOuts)
	if err != nil {
		return fmt.Errorf("input %d: %w", idx, err)
	}
	for pos, result := range results {
		fmt.Fprintf(w, "  key %d %x: %v verified=%v\n", pos,
			result.PublicKey, result.Slot.State, result.Verified)
	}

	switch {
	case len(cfg.pubKeys) == verify.KeySetSize(parsed):
		signed, err := v.VerifySignatureWithPublicKeys(tx, idx,
			cfg.prevOuts, cfg.pubKeys)
		if err != nil {
			return fmt.Errorf("input %d: %w", idx, err)
		}
		for i, ok := range signed {
			fmt.Fprintf(w, "  pubkey %x signed=%v\n", cfg.pubKeys[i],
				ok)
		}

	case len(cfg.pubKeys) > 0:
		for _, pubKey := range cfg.pubKeys {
			ok, err := v.VerifySignatureWithPublicKey(tx, idx,
				cfg.prevOuts, pubKey)
			if err != nil {
				return fmt.Errorf("input %d: %w", idx, err)
			}
			fmt.Fprintf(w, "  pubkey %x signed=%v\n", pubKey, ok)
		}
	}

	var settings []verify.Setting
	if cfg.SigIndex >= 0 {
		settings = append(settings, verify.WithSignatureIndex(cfg.SigIndex))
	}
	if len(cfg.pubKeys) == 1 {
		settings = append(settings, verify.WithPublicKey(cfg.pubKeys[0]))
	}
	ok, err := v.VerifySignature(tx, idx, cfg.prevOuts, settings...)
	if err != nil {
		return fmt.Errorf("input %d: %w", idx, err)
	}
	fmt.Fprintf(w, "  valid=%v\n", ok)
	return nil
}

// realMain is the real main function for the utility.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func realMain() error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() {
		if log.LogRotator != nil {
			log.LogRotator.Close()
		}
	}()
	mlog := log.MsgvLog

	v := verify.New(cfg.net,
		verify.WithSigCache(verify.NewSigCache(cfg.SigCacheMax)))
	tx := cfg.tx
	mlog.Infof("Verifying transaction %v on %v", tx.TxHash(), cfg.net)

	inputs := []int{cfg.Input}
	if cfg.Input < 0 {
		inputs = inputs[:0]
		for i := range tx.TxIn {
			inputs = append(inputs, i)
		}
	}

	var failed []string
	for _, idx := range inputs {
		if err := inputReport(os.Stdout, cfg, v, tx, idx); err != nil {
			// Inputs that are not wallet inputs are reported and
			// skipped when checking every input.
			if cfg.Input < 0 && sigscript.IsErrorCode(err,
				sigscript.ErrUnsupportedScript) {

				mlog.Warnf("Skipping %v", err)
				continue
			}
			mlog.Errorf("%v", err)
			failed = append(failed, fmt.Sprint(idx))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("unable to verify inputs %s",
			strings.Join(failed, ", "))
	}
	return nil
}

func main() {
	if err := realMain(); err != nil {
		os.Exit(1)
	}
}
