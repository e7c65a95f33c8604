package bcdboot_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/windeploy/pkg/bcdboot"
	"github.com/arthur-debert/windeploy/pkg/letters"
	"github.com/arthur-debert/windeploy/pkg/testutil"
	"github.com/arthur-debert/windeploy/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs(t *testing.T) {
	tests := []struct {
		name     string
		scheme   types.Scheme
		set      letters.Set
		expected []string
	}{
		{
			name:     "gpt",
			scheme:   types.GPT,
			set:      letters.Default(),
			expected: []string{`W:\Windows`, "/s", "S:", "/f", "UEFI"},
		},
		{
			name:     "mbr",
			scheme:   types.MBR,
			set:      letters.Default(),
			expected: []string{`W:\Windows`, "/s", "W:", "/f", "BIOS"},
		},
		{
			name:     "gpt with other letters",
			scheme:   types.GPT,
			set:      letters.Set{System: 'P', Windows: 'Q'},
			expected: []string{`Q:\Windows`, "/s", "P:", "/f", "UEFI"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, bcdboot.Args(tt.set.WindowsRoot(), tt.scheme, tt.set))
		})
	}
}

func TestConfigure(t *testing.T) {
	runner := testutil.NewFakeRunner().On("bcdboot.exe", "", testutil.Fail(1, "", "Failure when attempting to copy boot files."))

	res := bcdboot.New(runner, "", 0).Configure(context.Background(), "W:", types.GPT, letters.Default())

	assert.False(t, res.Succeeded)
	assert.Equal(t, "Failure when attempting to copy boot files.", res.Diagnostic())
	require.Len(t, runner.Calls(), 1)
	assert.Equal(t, `bcdboot.exe W:\Windows /s S: /f UEFI`, runner.Calls()[0].Line())
}
