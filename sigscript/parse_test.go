// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sigscript_test

import (
	"testing"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcmultisig/internal/fixture"
	"github.com/btcsuite/btcmultisig/network"
	"github.com/btcsuite/btcmultisig/scriptclass"
	"github.com/btcsuite/btcmultisig/sigscript"
	"github.com/btcsuite/btcmultisig/template"
	"github.com/stretchr/testify/require"
)

var userBitGo = [2]template.KeyRole{template.KeyUser, template.KeyBitGo}

// TestParse ensures every script type parses in every signing state and
// encodes back to the same input.
func TestParse(t *testing.T) {
	t.Parallel()

	states := []fixture.SignState{
		fixture.Unsigned, fixture.HalfSigned, fixture.FullySigned,
	}
	for _, st := range template.AllScriptTypes() {
		for _, state := range states {
			s, err := fixture.NewSpend(network.Bitcoin, st,
				userBitGo, state)
			require.NoError(t, err)

			p, err := sigscript.Parse(s.TxIn(), s.PrevOut(),
				network.Bitcoin)
			require.NoError(t, err, "%v %v", st, state)
			require.Equal(t, st, p.ScriptType)
			require.Equal(t, st.Threshold(), p.Threshold)
			require.False(t, p.KeyPath)

			wantSigs := 0
			switch {
			case st == template.P2shP2pk && state != fixture.Unsigned:
				wantSigs = 1
			case state == fixture.HalfSigned:
				wantSigs = 1
			case state == fixture.FullySigned:
				wantSigs = 2
			}
			require.Equal(t, wantSigs, p.SignatureCount(),
				"%v %v", st, state)

			finalizedMultiSig := state == fixture.FullySigned &&
				st != template.P2shP2pk && st != template.P2tr
			require.Equal(t, !finalizedMultiSig, p.ScriptOrdered)
			if p.ScriptOrdered {
				require.Len(t, p.Signatures, st.SlotCount())
			}

			switch st {
			case template.P2shP2pk:
				require.Equal(t, scriptclass.PubKeyTy, p.PubScriptClass)
				require.Len(t, p.PublicKeys, 1)
				require.Equal(t, s.Scripts.RedeemScript, p.PubScript)
			case template.P2sh:
				require.Equal(t, scriptclass.MultiSigTy, p.PubScriptClass)
				require.Equal(t, fixture.Keys().Slice(), p.PublicKeys)
				require.Equal(t, s.Scripts.RedeemScript, p.PubScript)
			case template.P2shP2wsh, template.P2wsh:
				require.Equal(t, scriptclass.MultiSigTy, p.PubScriptClass)
				require.Equal(t, fixture.Keys().Slice(), p.PublicKeys)
				require.Equal(t, s.Scripts.WitnessScript, p.PubScript)
			case template.P2tr:
				require.Equal(t, scriptclass.TaprootTy, p.PubScriptClass)
				require.Len(t, p.PublicKeys, 2)
				require.Equal(t, s.Scripts.Taproot.Leaves[s.Leaf],
					p.PubScript)
				require.Equal(t, txscript.BaseLeafVersion,
					p.LeafVersion)
			}

			scriptSig, witness, err := sigscript.Encode(p)
			require.NoError(t, err)
			require.Equal(t, s.TxIn().SignatureScript, scriptSig)
			require.Equal(t, s.TxIn().Witness, witness)
		}
	}
}

// TestParseWithoutPrevOut ensures inputs parse without their spent output
// and with no network.
func TestParseWithoutPrevOut(t *testing.T) {
	t.Parallel()

	for _, st := range template.AllScriptTypes() {
		s, err := fixture.NewSpend(network.Bitcoin, st, userBitGo,
			fixture.HalfSigned)
		require.NoError(t, err)

		p, err := sigscript.Parse(s.TxIn(), nil, nil)
		require.NoError(t, err, st)
		require.Equal(t, st, p.ScriptType)
	}
}

// TestParseKeyPath ensures taproot key path inputs take the output key from
// the spent output.
func TestParseKeyPath(t *testing.T) {
	t.Parallel()

	for _, signed := range []bool{false, true} {
		s, err := fixture.NewKeyPathSpend(network.Bitcoin, signed)
		require.NoError(t, err)

		p, err := sigscript.Parse(s.TxIn(), s.PrevOut(), network.Bitcoin)
		require.NoError(t, err)
		require.True(t, p.KeyPath)
		require.True(t, p.ScriptOrdered)
		require.Equal(t, [][]byte{s.PrevOut().PkScript[2:]}, p.PublicKeys)
		require.Nil(t, p.PubScript)
		require.Len(t, p.Signatures, 1)
		require.Equal(t, signed, p.Signatures[0].IsSignature())

		scriptSig, witness, err := sigscript.Encode(p)
		require.NoError(t, err)
		require.Empty(t, scriptSig)
		require.Equal(t, s.TxIn().Witness, witness)
	}

	s, err := fixture.NewKeyPathSpend(network.Bitcoin, true)
	require.NoError(t, err)
	p, err := sigscript.Parse(s.TxIn(), nil, network.Bitcoin)
	require.NoError(t, err)
	require.True(t, p.KeyPath)
	require.Empty(t, p.PublicKeys)
}

// TestParseErrors ensures malformed and mismatched inputs are rejected with
// the expected error code.
func TestParseErrors(t *testing.T) {
	t.Parallel()

	spend := func(st template.ScriptType,
		state fixture.SignState) *fixture.Spend {

		s, err := fixture.NewSpend(network.Bitcoin, st, userBitGo,
			state)
		require.NoError(t, err)
		return s
	}
	otherScripts, err := template.NewWalletScripts(template.P2wsh,
		template.KeyTriple{
			fixture.Keys()[2], fixture.Keys()[1], fixture.Keys()[0],
		})
	require.NoError(t, err)

	tests := []struct {
		name    string
		net     *network.Network
		setup   func() (*wire.TxIn, *wire.TxOut)
		errCode sigscript.ErrorCode
	}{{
		name: "empty input",
		setup: func() (*wire.TxIn, *wire.TxOut) {
			return &wire.TxIn{}, nil
		},
		errCode: sigscript.ErrUnsupportedScript,
	}, {
		name: "taproot annex",
		setup: func() (*wire.TxIn, *wire.TxOut) {
			s := spend(template.P2tr, fixture.HalfSigned)
			txIn := s.TxIn()
			txIn.Witness = append(txIn.Witness, []byte{
				txscript.TaprootAnnexTag, 0x01,
			})
			return txIn, s.PrevOut()
		},
		errCode: sigscript.ErrAnnexUnsupported,
	}, {
		name: "p2wsh on bitcoin cash",
		net:  network.BitcoinCash,
		setup: func() (*wire.TxIn, *wire.TxOut) {
			s := spend(template.P2wsh, fixture.Unsigned)
			return s.TxIn(), s.PrevOut()
		},
		errCode: sigscript.ErrScriptTypeInactive,
	}, {
		name: "p2tr on litecoin",
		net:  network.Litecoin,
		setup: func() (*wire.TxIn, *wire.TxOut) {
			s := spend(template.P2tr, fixture.Unsigned)
			return s.TxIn(), s.PrevOut()
		},
		errCode: sigscript.ErrScriptTypeInactive,
	}, {
		name: "p2wsh prevout of other keys",
		setup: func() (*wire.TxIn, *wire.TxOut) {
			s := spend(template.P2wsh, fixture.HalfSigned)
			return s.TxIn(), wire.NewTxOut(1e5,
				otherScripts.PubScript)
		},
		errCode: sigscript.ErrPrevOutScriptMismatch,
	}, {
		name: "p2sh prevout of p2wsh",
		setup: func() (*wire.TxIn, *wire.TxOut) {
			s := spend(template.P2sh, fixture.HalfSigned)
			return s.TxIn(), wire.NewTxOut(1e5,
				otherScripts.PubScript)
		},
		errCode: sigscript.ErrPrevOutScriptMismatch,
	}, {
		name: "p2tr prevout of p2wsh",
		setup: func() (*wire.TxIn, *wire.TxOut) {
			s := spend(template.P2tr, fixture.HalfSigned)
			return s.TxIn(), wire.NewTxOut(1e5,
				otherScripts.PubScript)
		},
		errCode: sigscript.ErrPrevOutScriptMismatch,
	}, {
		name: "nested witness program mismatch",
		setup: func() (*wire.TxIn, *wire.TxOut) {
			s := spend(template.P2shP2wsh, fixture.HalfSigned)
			program, err := template.P2wshOutput(
				otherScripts.WitnessScript)
			require.NoError(t, err)
			scriptSig, err := txscript.NewScriptBuilder().
				AddData(program).Script()
			require.NoError(t, err)
			txIn := s.TxIn()
			txIn.SignatureScript = scriptSig
			return txIn, nil
		},
		errCode: sigscript.ErrWitnessProgramMismatch,
	}, {
		name: "too many signature items",
		setup: func() (*wire.TxIn, *wire.TxOut) {
			s := spend(template.P2wsh, fixture.Unsigned)
			txIn := s.TxIn()
			last := len(txIn.Witness) - 1
			witness := append(wire.TxWitness{}, txIn.Witness[:last]...)
			witness = append(witness, []byte{}, txIn.Witness[last])
			txIn.Witness = witness
			return txIn, nil
		},
		errCode: sigscript.ErrSlotCount,
	}, {
		name: "no signature items",
		setup: func() (*wire.TxIn, *wire.TxOut) {
			s := spend(template.P2wsh, fixture.Unsigned)
			txIn := s.TxIn()
			txIn.Witness = wire.TxWitness{
				{}, s.Scripts.WitnessScript,
			}
			return txIn, nil
		},
		errCode: sigscript.ErrSlotCount,
	}, {
		name: "missing dummy element",
		setup: func() (*wire.TxIn, *wire.TxOut) {
			s := spend(template.P2wsh, fixture.Unsigned)
			txIn := s.TxIn()
			txIn.Witness[0] = []byte{0x01}
			return txIn, nil
		},
		errCode: sigscript.ErrUnsupportedScript,
	}, {
		name: "one of one multisig",
		setup: func() (*wire.TxIn, *wire.TxOut) {
			redeem, err := template.MultiSigScript(
				[][]byte{fixture.Keys()[0]}, 1)
			require.NoError(t, err)
			scriptSig, err := txscript.NewScriptBuilder().
				AddOp(txscript.OP_0).AddOp(txscript.OP_0).
				AddData(redeem).Script()
			require.NoError(t, err)
			return &wire.TxIn{SignatureScript: scriptSig}, nil
		},
		errCode: sigscript.ErrUnsupportedScript,
	}, {
		name: "p2shP2wsh without witness",
		setup: func() (*wire.TxIn, *wire.TxOut) {
			s := spend(template.P2shP2wsh, fixture.HalfSigned)
			txIn := s.TxIn()
			txIn.Witness = nil
			return txIn, nil
		},
		errCode: sigscript.ErrUnsupportedScript,
	}, {
		name: "tapscript missing signature item",
		setup: func() (*wire.TxIn, *wire.TxOut) {
			s := spend(template.P2tr, fixture.HalfSigned)
			txIn := s.TxIn()
			txIn.Witness = txIn.Witness[1:]
			return txIn, nil
		},
		errCode: sigscript.ErrSlotCount,
	}}

	for _, test := range tests {
		net := test.net
		if net == nil {
			net = network.Bitcoin
		}
		txIn, prevOut := test.setup()
		_, err := sigscript.Parse(txIn, prevOut, net)
		require.Error(t, err, test.name)
		require.True(t, sigscript.IsErrorCode(err, test.errCode),
			"%s: %v", test.name, err)
	}
}

// TestEncodeSlotCount ensures inputs with the wrong number of slots are not
// encoded.
func TestEncodeSlotCount(t *testing.T) {
	t.Parallel()

	s, err := fixture.NewSpend(network.Bitcoin, template.P2tr, userBitGo,
		fixture.HalfSigned)
	require.NoError(t, err)
	p, err := sigscript.Parse(s.TxIn(), s.PrevOut(), network.Bitcoin)
	require.NoError(t, err)

	p.Signatures = p.Signatures[:1]
	_, _, err = sigscript.Encode(p)
	require.ErrorIs(t, err, sigscript.ErrSlotCount)

	p.ScriptType = template.ScriptType(99)
	_, _, err = sigscript.Encode(p)
	require.ErrorIs(t, err, sigscript.ErrUnsupportedScript)
}
