package mdio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "xginit/pkg/errors"
)

type regAccess struct {
	offset uint32
	value  uint32
}

// fakeRegion is a scriptable in-memory register window. The control register
// reports busy for busyPolls reads, then reads as idle.
type fakeRegion struct {
	values    map[uint32]uint32
	writes    []regAccess
	busyPolls int
	readErr   map[uint32]error
	writeErr  map[uint32]error
}

func newFakeRegion() *fakeRegion {
	return &fakeRegion{
		values:   make(map[uint32]uint32),
		readErr:  make(map[uint32]error),
		writeErr: make(map[uint32]error),
	}
}

func (f *fakeRegion) Read32(offset uint32) (uint32, error) {
	if err := f.readErr[offset]; err != nil {
		return 0, err
	}
	if offset == regCtrl {
		if f.busyPolls > 0 {
			f.busyPolls--
			return ctrlEnable | ctrlReqBusy, nil
		}
		return ctrlEnable, nil
	}
	return f.values[offset], nil
}

func (f *fakeRegion) Write32(offset uint32, value uint32) error {
	if err := f.writeErr[offset]; err != nil {
		return err
	}
	f.writes = append(f.writes, regAccess{offset, value})
	f.values[offset] = value
	return nil
}

func (f *fakeRegion) Close() error { return nil }

func testConfig() Config {
	return Config{PollInterval: 0, PollLimit: 5}
}

func TestPackAddress1(t *testing.T) {
	tests := []struct {
		name             string
		op, port, device uint8
		want             uint32
	}{
		{"all zero", opSetAddress, 0, 0, 0},
		{"write op", opWrite, 0, 0, 1 << 10},
		{"read op", opRead, 0, 0, 3 << 10},
		{"port placement", opSetAddress, 0x1f, 0, 0x1f << 5},
		{"device placement", opSetAddress, 0, 0x1f, 0x1f},
		{"all fields", opRead, 3, 7, 3<<10 | 3<<5 | 7},
		{"port masked to 5 bits", opSetAddress, 0xff, 0, 0x1f << 5},
		{"device masked to 5 bits", opSetAddress, 0, 0xff, 0x1f},
		{"op masked to 2 bits", 0xff, 0, 0, 3 << 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, packAddress1(tt.op, tt.port, tt.device))
		})
	}
}

func TestEngine_WriteSequence(t *testing.T) {
	regs := newFakeRegion()
	e := New(regs, testConfig())

	require.NoError(t, e.Write(0, 1, 0x8000, 0x4000))

	want := []regAccess{
		// address phase
		{regAddress1, packAddress1(opSetAddress, 0, 1)},
		{regAddress2, 0x8000},
		{regCtrl, ctrlEnable | ctrlReqBusy},
		// data phase
		{regAddress1, packAddress1(opWrite, 0, 1)},
		{regWriteBuf, 0x4000},
		{regCtrl, ctrlEnable | ctrlReqBusy},
	}
	assert.Equal(t, want, regs.writes)
}

func TestEngine_ReadSequence(t *testing.T) {
	regs := newFakeRegion()
	regs.values[regReadBuf] = 0xbeef
	e := New(regs, testConfig())

	got, err := e.Read(5, 2, 0x0001)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xbeef), got)

	want := []regAccess{
		{regAddress1, packAddress1(opSetAddress, 5, 2)},
		{regAddress2, 0x0001},
		{regCtrl, ctrlEnable | ctrlReqBusy},
		{regAddress1, packAddress1(opRead, 5, 2)},
		{regCtrl, ctrlEnable | ctrlReqBusy},
	}
	assert.Equal(t, want, regs.writes)
}

func TestEngine_ReadTruncatesTo16Bits(t *testing.T) {
	regs := newFakeRegion()
	regs.values[regReadBuf] = 0xdead_beef
	e := New(regs, testConfig())

	got, err := e.Read(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xbeef), got)
}

func TestEngine_BusyClearsWithinBudget(t *testing.T) {
	regs := newFakeRegion()
	regs.busyPolls = 3
	e := New(regs, Config{PollInterval: 0, PollLimit: 4})

	assert.NoError(t, e.Write(0, 1, 0x8000, 0x4000))
}

func TestEngine_PollTimeout(t *testing.T) {
	regs := newFakeRegion()
	regs.busyPolls = 1 << 30 // never clears
	e := New(regs, Config{PollInterval: 0, PollLimit: 3})

	err := e.Write(2, 9, 0x8001, 0x0001)
	require.Error(t, err)
	assert.True(t, xerrors.IsTimeoutError(err))
	assert.True(t, xerrors.IsProtocolError(err))

	port, device, register, ok := xerrors.GetMdioCoordinates(err)
	require.True(t, ok)
	assert.Equal(t, uint8(2), port)
	assert.Equal(t, uint8(9), device)
	assert.Equal(t, uint16(0x8001), register)
}

func TestEngine_TransportFailureAborts(t *testing.T) {
	cause := errors.New("bus fault")

	t.Run("address phase write", func(t *testing.T) {
		regs := newFakeRegion()
		regs.writeErr[regAddress2] = cause

		err := New(regs, testConfig()).Write(0, 1, 0x8000, 0x4000)
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.True(t, xerrors.IsProtocolError(err))
		// Nothing past the failing register was touched.
		assert.Equal(t, []regAccess{{regAddress1, packAddress1(opSetAddress, 0, 1)}}, regs.writes)
	})

	t.Run("data phase write buffer", func(t *testing.T) {
		regs := newFakeRegion()
		regs.writeErr[regWriteBuf] = cause

		err := New(regs, testConfig()).Write(0, 1, 0x8000, 0x4000)
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("control poll read", func(t *testing.T) {
		regs := newFakeRegion()
		regs.readErr[regCtrl] = cause

		_, err := New(regs, testConfig()).Read(0, 1, 0x8000)
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
	})
}
