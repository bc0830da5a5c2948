package rsc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogisimRoundTrip(t *testing.T) {
	prog := Assemble("LDAC x\nSTAC y\nHALT\nx: 0000002A\ny: 00000000\n")
	require.True(t, prog.Runnable())

	var buf bytes.Buffer
	require.NoError(t, WriteLogisim(&buf, prog.Instructions))

	got, err := ReadLogisim(&buf)
	require.NoError(t, err)
	require.Equal(t, prog.Instructions, got)
}

func TestLogisimImageFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLogisim(&buf, []uint32{0, 10, 0xDEADBEEF}))

	want := "v2.0 raw\n00000000\n0000000A\nDEADBEEF\n"
	require.Equal(t, want, buf.String())
}

func TestReadLogisimRejectsBadHeader(t *testing.T) {
	_, err := ReadLogisim(bytes.NewBufferString("not a logisim file\n"))
	require.Error(t, err)
}
