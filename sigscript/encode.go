// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sigscript

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcmultisig/template"
)

// slotItems returns the stack items of the slots.  Placeholders encode as
// empty items and absent slots are omitted.
func slotItems(slots []SignatureSlot) [][]byte {
	items := make([][]byte, 0, len(slots))
	for _, slot := range slots {
		switch slot.State {
		case SlotSignature:
			items = append(items, slot.Sig)
		case SlotPlaceholder:
			items = append(items, []byte{})
		}
	}
	return items
}

// pushScript returns a script pushing each item in order.
func pushScript(items ...[]byte) ([]byte, error) {
	builder := txscript.NewScriptBuilder()
	for _, item := range items {
		builder.AddData(item)
	}
	return builder.Script()
}

// multiSigStack returns the OP_CHECKMULTISIG dummy element followed by the
// slot items and the script.
func multiSigStack(slots []SignatureSlot, script []byte) [][]byte {
	stack := [][]byte{{}}
	stack = append(stack, slotItems(slots)...)
	return append(stack, script)
}

// Encode returns the signature script and witness of the parsed input.  It
// is the inverse of Parse and is used by co-signers to write back an input
// after filling a slot.
func Encode(p *ParsedSignatureScript) ([]byte, wire.TxWitness, error) {
	switch p.ScriptType {
	case template.P2shP2pk:
		if len(p.Signatures) != 1 {
			return nil, nil, fmt.Errorf("%w: p2shP2pk has %d slots",
				ErrSlotCount, len(p.Signatures))
		}
		items := slotItems(p.Signatures)
		if len(items) == 0 {
			items = [][]byte{{}}
		}
		scriptSig, err := pushScript(append(items, p.RedeemScript)...)
		return scriptSig, nil, err

	case template.P2sh:
		scriptSig, err := pushScript(
			multiSigStack(p.Signatures, p.RedeemScript)...,
		)
		return scriptSig, nil, err

	case template.P2shP2wsh:
		scriptSig, err := pushScript(p.RedeemScript)
		if err != nil {
			return nil, nil, err
		}
		witness := multiSigStack(p.Signatures, p.WitnessScript)
		return scriptSig, witness, nil

	case template.P2wsh:
		return nil, multiSigStack(p.Signatures, p.WitnessScript), nil

	case template.P2tr:
		if p.KeyPath {
			if len(p.Signatures) != 1 {
				return nil, nil, fmt.Errorf("%w: key path has "+
					"%d slots", ErrSlotCount,
					len(p.Signatures))
			}
			items := slotItems(p.Signatures)
			if len(items) == 0 {
				items = [][]byte{{}}
			}
			return nil, items, nil
		}

		// Every script path slot is required since the leaf script
		// consumes exactly one item per key.
		if len(p.Signatures) != template.TapscriptKeyCount {
			return nil, nil, fmt.Errorf("%w: script path has %d "+
				"slots", ErrSlotCount, len(p.Signatures))
		}
		witness := make(wire.TxWitness, 0, len(p.Signatures)+2)
		for i := len(p.Signatures) - 1; i >= 0; i-- {
			slot := p.Signatures[i]
			if slot.IsSignature() {
				witness = append(witness, slot.Sig)
			} else {
				witness = append(witness, []byte{})
			}
		}
		witness = append(witness, p.PubScript, p.ControlBlock)
		return nil, witness, nil
	}
	return nil, nil, fmt.Errorf("%w: %v", ErrUnsupportedScript,
		p.ScriptType)
}
