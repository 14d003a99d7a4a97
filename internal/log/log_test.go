// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package log

import (
	"testing"

	"github.com/btcsuite/btclog"
	"github.com/stretchr/testify/require"
)

func TestParseAndSetDebugLevels(t *testing.T) {
	defer SetLogLevels("info")

	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"SSCR=trace,VRFY=warn", false},
		{"bogus", true},
		{"SSCR=trace,debug", true},
		{"NOPE=debug", true},
		{"VRFY=loud", true},
	}
	for _, test := range tests {
		err := ParseAndSetDebugLevels(test.level)
		if test.wantErr {
			require.Error(t, err, test.level)
			continue
		}
		require.NoError(t, err, test.level)
	}

	require.NoError(t, ParseAndSetDebugLevels("SGHS=trace,MSGV=error"))
	require.Equal(t, btclog.LevelTrace, SghsLog.Level())
	require.Equal(t, btclog.LevelError, MsgvLog.Level())
}

func TestSupportedSubsystems(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"MSGV", "SGHS", "SSCR", "VRFY"},
		SupportedSubsystems())
}
