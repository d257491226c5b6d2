package cmd

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/allbin/go-comport"
)

func newSetFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "set"}
	cmd.Flags().IntP("baud", "b", 9600, "")
	cmd.Flags().Int("data-bits", 8, "")
	cmd.Flags().StringP("parity", "p", "none", "")
	cmd.Flags().String("stop-bits", "1", "")
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatal(err)
	}
	return cmd
}

// parityPort records SetParity; no other method is used.
type parityPort struct {
	comport.Port
	parity *comport.Parity
}

func (p parityPort) SetParity(v comport.Parity) error {
	*p.parity = v
	return nil
}

func TestRequestedChangesLeavesBaudAlone(t *testing.T) {
	changes, err := requestedChanges(newSetFlags(t, "--parity", "even"))
	if err != nil {
		t.Fatal(err)
	}
	if changes.baud != nil {
		t.Errorf("baud = %v, want untouched", *changes.baud)
	}
	if len(changes.apply) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes.apply))
	}

	var got comport.Parity
	if err := changes.apply[0](parityPort{parity: &got}); err != nil {
		t.Fatal(err)
	}
	if got != comport.ParityEven {
		t.Errorf("parity = %v, want even", got)
	}
}

func TestRequestedChangesBaudOnly(t *testing.T) {
	changes, err := requestedChanges(newSetFlags(t, "--baud", "57600"))
	if err != nil {
		t.Fatal(err)
	}
	if changes.baud == nil || *changes.baud != comport.Baud57600 {
		t.Errorf("baud = %v, want 57600", changes.baud)
	}
	if len(changes.apply) != 0 {
		t.Errorf("unexpected line changes: %d", len(changes.apply))
	}
}

func TestRequestedChangesErrors(t *testing.T) {
	tests := [][]string{
		nil,
		{"--baud", "14400"},
		{"--data-bits", "9"},
		{"--parity", "sideways"},
		{"--stop-bits", "3"},
	}
	for _, args := range tests {
		if _, err := requestedChanges(newSetFlags(t, args...)); err == nil {
			t.Errorf("requestedChanges(%v) succeeded", args)
		}
	}
}

func TestChangedBaudDefaultIsNil(t *testing.T) {
	baud, err := changedBaud(newSetFlags(t))
	if err != nil || baud != nil {
		t.Errorf("changedBaud() = %v, %v; want nil, nil", baud, err)
	}
}
