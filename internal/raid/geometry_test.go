package raid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnitForDiskRAID4IsIdentity(t *testing.T) {
	a := DiskArray{Level: RAID4, DataDisks: 4, StripingUnit: 2048, FaultyDisk: FaultFree}

	for stripe := uint64(0); stripe < 12; stripe++ {
		for disk := uint32(0); disk <= a.DataDisks; disk++ {
			require.Equal(t, disk, a.UnitForDisk(disk, stripe))
			require.Equal(t, disk, a.DiskForUnit(disk, stripe))
		}
		require.Equal(t, a.DataDisks, a.ParityDisk(stripe))
		require.Zero(t, a.Rotation(stripe))
	}
}

func TestGeometryRoundTrip(t *testing.T) {
	for dataDisks := uint32(1); dataDisks <= 8; dataDisks++ {
		a := DiskArray{Level: RAID5, DataDisks: dataDisks, StripingUnit: 512, FaultyDisk: FaultFree}

		for stripe := uint64(0); stripe < 3*uint64(a.Disks()); stripe++ {
			seen := make(map[uint32]bool)
			for disk := uint32(0); disk <= dataDisks; disk++ {
				unit := a.UnitForDisk(disk, stripe)
				require.LessOrEqual(t, unit, dataDisks)
				require.False(t, seen[unit], "unit %d mapped twice in stripe %d", unit, stripe)
				seen[unit] = true

				require.Equal(t, disk, a.DiskForUnit(unit, stripe))
			}
		}
	}
}

func TestRAID5LeftSymmetricParity(t *testing.T) {
	a := DiskArray{Level: RAID5, DataDisks: 4, StripingUnit: 2048, FaultyDisk: FaultFree}

	expected := []uint32{4, 3, 2, 1, 0, 4, 3}
	for stripe, disk := range expected {
		require.Equal(t, disk, a.ParityDisk(uint64(stripe)), "stripe %d", stripe)
		require.Equal(t, a.DataDisks, a.UnitForDisk(disk, uint64(stripe)))
	}

	require.Equal(t, uint32(1), a.UnitForDisk(0, 1))
	require.Equal(t, uint32(0), a.UnitForDisk(4, 1))
	require.Equal(t, uint32(2), a.Rotation(7))
}

func TestValidateGeometry(t *testing.T) {
	valid := DiskArray{Level: RAID5, DataDisks: 4, StripingUnit: 4096, FaultyDisk: 4}
	require.NoError(t, valid.Validate())

	cases := []DiskArray{
		{Level: RAID4, DataDisks: 0, StripingUnit: 2048, FaultyDisk: FaultFree},
		{Level: RAID4, DataDisks: 4, StripingUnit: 0, FaultyDisk: FaultFree},
		{Level: RAID4, DataDisks: 4, StripingUnit: 1000, FaultyDisk: FaultFree},
		{Level: RAID4, DataDisks: 4, StripingUnit: 2048, FaultyDisk: 5},
		{Level: RAID4, DataDisks: 4, StripingUnit: 2048, FaultyDisk: -2},
		{Level: Level(6), DataDisks: 4, StripingUnit: 2048, FaultyDisk: FaultFree},
	}
	for _, a := range cases {
		require.ErrorIs(t, a.Validate(), ErrInvalidGeometry, "%+v", a)
	}
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("raid5")
	require.NoError(t, err)
	require.Equal(t, RAID5, l)

	l, err = ParseLevel("4")
	require.NoError(t, err)
	require.Equal(t, RAID4, l)

	_, err = ParseLevel("raid6")
	require.ErrorIs(t, err, ErrInvalidGeometry)
}
