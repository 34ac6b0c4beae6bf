package raid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// unitCost counts the bytes of a scope table one logical unit at a time.
func unitCost(l Layout, g ScopeGroups) uint64 {
	var total uint64
	for unit := uint32(0); unit < l.DataDisks; unit++ {
		switch {
		case unit == l.FirstUnit:
			total += uint64(g.First.Length)
		case unit == l.FinalUnit():
			total += uint64(g.Final.Length)
		case l.Contains(unit):
			if l.Fault.Kind == RequestFault && l.Fault.Unit == unit {
				continue
			}
			total += uint64(g.Other.Length)
		default:
			total += uint64(g.OffRequest.Length)
		}
	}
	return total + uint64(g.Parity.Length)
}

func planSingle(t *testing.T, a DiskArray, nature Nature, offset uint64, length uint32) StripePlan {
	t.Helper()

	p, err := PlanRequest(a, Request{Nature: nature, Offset: offset, Length: length})
	require.NoError(t, err)
	require.Len(t, p.Stripes, 1)

	sp := p.Stripes[0]
	require.Equal(t, sp.Cost, unitCost(sp.Layout, sp.Reads))
	return sp
}

func withFault(a DiskArray, disk int) DiskArray {
	a.FaultyDisk = disk
	return a
}

func TestSingleSectorWritePrefersRMW(t *testing.T) {
	a := DiskArray{Level: RAID4, DataDisks: 7, StripingUnit: 4 * SectorSize, FaultyDisk: FaultFree}

	sp := planSingle(t, a, Write, 0, SectorSize)
	require.Equal(t, MethodRMW, sp.Method)
	require.Equal(t, ScopeGroups{First: UnitScope{0, 512}, Parity: UnitScope{0, 512}}, sp.Reads)
	require.Equal(t, uint64(1024), sp.Cost)
	require.Equal(t, &Alternative{Method: MethodRW, Cost: 6 * 512}, sp.Alternative)
}

func TestSingleUnitWriteOnFewDisksPrefersRW(t *testing.T) {
	a := DiskArray{Level: RAID4, DataDisks: 3, StripingUnit: 2048, FaultyDisk: FaultFree}

	sp := planSingle(t, a, Write, 2048+512, 1024)
	require.Equal(t, MethodRW, sp.Method)
	require.Equal(t, ScopeGroups{OffRequest: UnitScope{512, 1024}}, sp.Reads)
	require.Equal(t, uint64(2048), sp.Cost)
	require.Equal(t, uint64(2048), sp.Alternative.Cost)
}

func TestWholeUnitWriteMethods(t *testing.T) {
	a := DiskArray{Level: RAID4, DataDisks: 7, StripingUnit: 4 * SectorSize}
	offset, length := uint64(12*SectorSize), uint32(4*SectorSize)

	sp := planSingle(t, withFault(a, FaultFree), Write, offset, length)
	require.Equal(t, MethodRMW, sp.Method)
	require.Equal(t, uint64(4096), sp.Cost)
	require.Equal(t, uint64(12288), sp.Alternative.Cost)

	// The only request unit is faulty.
	sp = planSingle(t, withFault(a, 3), Write, offset, length)
	require.Equal(t, FaultClass{Kind: RequestFault, Unit: 3}, sp.Layout.Fault)
	require.Equal(t, MethodRW, sp.Method)
	require.Equal(t, ScopeGroups{OffRequest: UnitScope{0, 2048}}, sp.Reads)
	require.Equal(t, uint64(12288), sp.Cost)
	require.Nil(t, sp.Alternative)

	sp = planSingle(t, withFault(a, 2), Write, offset, length)
	require.Equal(t, FaultClass{Kind: OffRequestFault, Unit: 2}, sp.Layout.Fault)
	require.Equal(t, MethodRMW, sp.Method)
	require.Equal(t, uint64(4096), sp.Cost)
	require.Nil(t, sp.Alternative)

	sp = planSingle(t, withFault(a, 7), Write, offset, length)
	require.Equal(t, MethodNW, sp.Method)
	require.Equal(t, ScopeGroups{}, sp.Reads)
	require.Zero(t, sp.Cost)
}

func TestOffRequestFaultForcesRMW(t *testing.T) {
	a := DiskArray{Level: RAID4, DataDisks: 7, StripingUnit: 2048, FaultyDisk: 6}

	// Fault free, this long write would go reconstruct-write.
	sp := planSingle(t, a, Write, 0, 6*2048)
	require.Equal(t, OffRequestFault, sp.Layout.Fault.Kind)
	require.Equal(t, MethodRMW, sp.Method)
	require.Equal(t, UnitScope{0, 2048}, sp.Reads.Parity)
	require.Equal(t, uint64(6*2048+2048), sp.Cost)
}

func TestOffRequestFaultSingleUnit(t *testing.T) {
	a := DiskArray{Level: RAID4, DataDisks: 7, StripingUnit: 2048, FaultyDisk: 2}

	// The request covers unit 3 only, so disk 2 is off request.
	sp := planSingle(t, a, Write, 12*SectorSize, 4*SectorSize)
	require.Equal(t, FaultClass{Kind: OffRequestFault, Unit: 2}, sp.Layout.Fault)
	require.Equal(t, MethodRMW, sp.Method)
	require.Equal(t, uint64(4096), sp.Cost)

	// With disk 3 faulty the whole request unit is lost.
	a.FaultyDisk = 3
	sp = planSingle(t, a, Write, 12*SectorSize, 4*SectorSize)
	require.Equal(t, FaultClass{Kind: RequestFault, Unit: 3}, sp.Layout.Fault)
	require.Equal(t, MethodRW, sp.Method)
	require.Equal(t, uint64(6*2048), sp.Cost)
}

func TestCutoffBoundaryIsStrict(t *testing.T) {
	a := DiskArray{Level: RAID4, DataDisks: 7, StripingUnit: 2048, FaultyDisk: FaultFree}

	// StripingUnit*(DataDisks-1) == 2*Length: both methods cost the same and
	// the strict cut-off settles on rw.
	sp := planSingle(t, a, Write, 12*SectorSize, 12*SectorSize)
	require.Equal(t, MethodRW, sp.Method)
	require.Equal(t, ScopeGroups{OffRequest: UnitScope{0, 2048}}, sp.Reads)
	require.Equal(t, uint64(8192), sp.Cost)
	require.Equal(t, &Alternative{Method: MethodRMW, Cost: 8192}, sp.Alternative)

	// One sector shorter moves the request into rmw territory.
	sp = planSingle(t, a, Write, 12*SectorSize, 11*SectorSize)
	require.Equal(t, MethodRMW, sp.Method)
	require.Equal(t, uint64(7680), sp.Cost)
	require.Equal(t, &Alternative{Method: MethodRW, Cost: 8704}, sp.Alternative)
}

func TestRequestFaultMethods(t *testing.T) {
	a := DiskArray{Level: RAID4, DataDisks: 7, StripingUnit: 2048}

	// Units 3..5, the first and interior ones fully written, the final one
	// written over its first three sectors.
	offset, length := uint64(12*SectorSize), uint32(11*SectorSize)

	sp := planSingle(t, withFault(a, 3), Write, offset, length)
	require.Equal(t, MethodRW, sp.Method)
	require.Equal(t, ScopeGroups{Final: UnitScope{1536, 512}, OffRequest: UnitScope{0, 2048}}, sp.Reads)
	require.Equal(t, uint64(8704), sp.Cost)

	sp = planSingle(t, withFault(a, 4), Write, offset, length)
	require.Equal(t, MethodRW, sp.Method)
	require.Equal(t, uint64(8704), sp.Cost)

	sp = planSingle(t, withFault(a, 5), Write, offset, length)
	require.Equal(t, MethodRWPlus, sp.Method)
	require.Equal(t, ScopeGroups{
		First:      UnitScope{1536, 512},
		Other:      UnitScope{1536, 512},
		OffRequest: UnitScope{0, 1536},
		Parity:     UnitScope{1536, 512},
	}, sp.Reads)
	require.Equal(t, uint64(7680), sp.Cost)
	require.Nil(t, sp.Alternative)
}

func TestReconstructWritePlusBothEdges(t *testing.T) {
	a := DiskArray{Level: RAID4, DataDisks: 7, StripingUnit: 2048}

	// Units 3..5: last sector of unit 3, all of unit 4, three sectors of unit 5.
	offset, length := uint64(15*SectorSize), uint32(8*SectorSize)

	sp := planSingle(t, withFault(a, FaultFree), Write, offset, length)
	require.Equal(t, MethodRMW, sp.Method)
	require.Equal(t, uint64(6144), sp.Cost)
	require.Equal(t, uint64(10240), sp.Alternative.Cost)

	sp = planSingle(t, withFault(a, 3), Write, offset, length)
	require.Equal(t, MethodRWPlus, sp.Method)
	require.Equal(t, ScopeGroups{
		Final:      UnitScope{0, 2048},
		Other:      UnitScope{0, 1536},
		OffRequest: UnitScope{1536, 512},
		Parity:     UnitScope{0, 1536},
	}, sp.Reads)
	require.Equal(t, uint64(7168), sp.Cost)

	sp = planSingle(t, withFault(a, 4), Write, offset, length)
	require.Equal(t, MethodRW, sp.Method)
	require.Equal(t, ScopeGroups{
		First:      UnitScope{0, 1536},
		Final:      UnitScope{1536, 512},
		OffRequest: UnitScope{0, 2048},
	}, sp.Reads)
	require.Equal(t, uint64(10240), sp.Cost)

	sp = planSingle(t, withFault(a, 5), Write, offset, length)
	require.Equal(t, MethodRWPlus, sp.Method)
	require.Equal(t, ScopeGroups{
		First:      UnitScope{0, 2048},
		Other:      UnitScope{1536, 512},
		OffRequest: UnitScope{0, 1536},
		Parity:     UnitScope{1536, 512},
	}, sp.Reads)
	require.Equal(t, uint64(9216), sp.Cost)
}

func TestReconstructWritePlusTwoUnitsFullStripe(t *testing.T) {
	a := DiskArray{Level: RAID4, DataDisks: 2, StripingUnit: 2048, FaultyDisk: 0}

	sp := planSingle(t, a, Write, 1024, 3072)
	require.Equal(t, MethodRWPlus, sp.Method)
	require.Equal(t, ScopeGroups{
		Final:  UnitScope{0, 1024},
		Parity: UnitScope{0, 1024},
	}, sp.Reads)
	require.Equal(t, uint64(2048), sp.Cost)
}

func TestFullStripeWriteReadsNothing(t *testing.T) {
	a := DiskArray{Level: RAID5, DataDisks: 4, StripingUnit: 2048, FaultyDisk: FaultFree}

	sp := planSingle(t, a, Write, 0, 4*2048)
	require.Equal(t, MethodRW, sp.Method)
	require.Zero(t, sp.Reads.OffRequest.Length)
	require.Zero(t, sp.Cost)
	require.Equal(t, &Alternative{Method: MethodRMW, Cost: 4*2048 + 2048}, sp.Alternative)
}

func TestDirectRead(t *testing.T) {
	a := DiskArray{Level: RAID5, DataDisks: 4, StripingUnit: 2048}

	for _, disk := range []int{FaultFree, 3, 4} {
		sp := planSingle(t, withFault(a, disk), Read, 512, 4096)
		require.Equal(t, MethodDR, sp.Method, "disk %d", disk)
		require.Equal(t, sp.Layout.Scopes, sp.Reads)
		require.Equal(t, uint64(4096), sp.Cost)
	}
}

func TestReconstructReadInteriorFault(t *testing.T) {
	a := DiskArray{Level: RAID4, DataDisks: 7, StripingUnit: 2048, FaultyDisk: 3}

	// Units 1..5 with the faulty unit strictly inside.
	sp := planSingle(t, a, Read, 2048+512, 4*2048)
	require.Equal(t, MethodRR, sp.Method)
	require.Equal(t, uint32(5), sp.Layout.RequestUnits)
	require.Equal(t, ScopeGroups{
		First:      UnitScope{0, 2048},
		Final:      UnitScope{0, 2048},
		Other:      UnitScope{0, 2048},
		OffRequest: UnitScope{0, 2048},
		Parity:     UnitScope{0, 2048},
	}, sp.Reads)

	// Two interior units are read, not three.
	require.Equal(t, sp.Layout.RequestUnits-3, sp.Layout.OtherUnits())
	require.Equal(t, uint64(7*2048), sp.Cost)
}

func TestReconstructReadEdgeFault(t *testing.T) {
	a := DiskArray{Level: RAID4, DataDisks: 7, StripingUnit: 2048, FaultyDisk: 1}

	sp := planSingle(t, a, Read, 2048+512, 4*2048)
	require.Equal(t, MethodRR, sp.Method)
	require.Equal(t, ScopeGroups{
		Final:      UnitScope{0, 2048},
		Other:      UnitScope{0, 2048},
		OffRequest: UnitScope{512, 1536},
		Parity:     UnitScope{512, 1536},
	}, sp.Reads)
	require.Equal(t, uint64(12800), sp.Cost)
}

func TestReconstructReadThreeUnitsInteriorFault(t *testing.T) {
	a := DiskArray{Level: RAID4, DataDisks: 3, StripingUnit: 2048, FaultyDisk: 1}

	sp := planSingle(t, a, Read, 1024, 4096)
	require.Equal(t, MethodRR, sp.Method)
	require.Equal(t, ScopeGroups{
		First:  UnitScope{0, 2048},
		Final:  UnitScope{0, 2048},
		Parity: UnitScope{0, 2048},
	}, sp.Reads)
	require.Equal(t, uint64(3*2048), sp.Cost)
}

func TestReconstructReadSingleUnit(t *testing.T) {
	a := DiskArray{Level: RAID5, DataDisks: 4, StripingUnit: 2048, FaultyDisk: 0}

	sp := planSingle(t, a, Read, 512, 1024)
	require.Equal(t, MethodRR, sp.Method)
	require.Equal(t, ScopeGroups{
		OffRequest: UnitScope{512, 1024},
		Parity:     UnitScope{512, 1024},
	}, sp.Reads)
	require.Equal(t, uint64(4*1024), sp.Cost)
}

// TestMethodProperties sweeps every stripe request of a set of small arrays
// under every fault position.
func TestMethodProperties(t *testing.T) {
	for _, dataDisks := range []uint32{1, 2, 3, 4, 5, 7} {
		for _, su := range []uint32{512, 1024, 2048} {
			a := DiskArray{Level: RAID4, DataDisks: dataDisks, StripingUnit: su}
			stripeLen := a.StripeLen()

			for offset := uint64(0); offset < stripeLen; offset += SectorSize {
				for end := offset + SectorSize; end <= stripeLen; end += SectorSize {
					sr := StripeRequest{Stripe: 0, Offset: offset, Length: uint32(end - offset)}
					base := Analyze(a, sr)

					for unit := NoUnit; unit <= int(dataDisks); unit++ {
						l := base.WithFaultUnit(unit)

						for _, nature := range []Nature{Read, Write} {
							d, err := Select(nature, l)
							require.NoError(t, err)
							require.Equal(t, d.Cost, l.Cost(d.Reads))
							require.Equal(t, d.Cost, unitCost(l, d.Reads))

							if d.Alternative != nil {
								require.Equal(t, NoFault, l.Fault.Kind)
								require.LessOrEqual(t, d.Cost, d.Alternative.Cost)
							}
							if nature == Write && l.Fault.Kind == NoFault {
								require.NotNil(t, d.Alternative)
							}
							if d.Method == MethodDR {
								require.Equal(t, uint64(l.Length), d.Cost)
							}
						}
					}
				}
			}
		}
	}
}

func TestInvariantError(t *testing.T) {
	var err error = &InvariantError{
		Chosen:          MethodRMW,
		ChosenCost:      4096,
		Alternative:     MethodRW,
		AlternativeCost: 2048,
	}

	require.ErrorIs(t, err, ErrMethodInvariant)

	var ie *InvariantError
	require.True(t, errors.As(err, &ie))
	require.Equal(t, MethodRW, ie.Alternative)
	require.Contains(t, err.Error(), "rmw costs 4096 bytes")
}

func TestMethodNames(t *testing.T) {
	for m := MethodNW; m <= MethodRR; m++ {
		parsed, err := ParseMethod(m.String())
		require.NoError(t, err)
		require.Equal(t, m, parsed)
	}
	require.Equal(t, "rw+", MethodRWPlus.String())

	_, err := ParseMethod("raid")
	require.Error(t, err)
}
