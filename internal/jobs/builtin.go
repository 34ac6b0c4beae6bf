package jobs

import "github.com/ostafen/raidplan/internal/raid"

const sector = raid.SectorSize

func array(level raid.Level, dataDisks uint32, stripingUnit uint32, faultyDisk int) raid.DiskArray {
	return raid.DiskArray{
		Level:        level,
		DataDisks:    dataDisks,
		StripingUnit: stripingUnit,
		FaultyDisk:   faultyDisk,
	}
}

// sectors builds a job whose offset and length are given in sectors.
func sectors(a raid.DiskArray, nature raid.Nature, offset, length uint64) Job {
	return Job{
		Array: a,
		Request: raid.Request{
			Nature: nature,
			Offset: offset * sector,
			Length: uint32(length * sector),
		},
	}
}

/*
|wwww|    |    |
|www |    |    |
| www|    |    |
| ww |    |    |
|wwww|wwww|    |
|wwww|ww  |    |
|  ww|wwww|    |
|  ww|ww  |    |
*/
var ScopeJobs = func() []Job {
	a := array(raid.RAID4, 2, 4*sector, raid.FaultFree)

	return []Job{
		sectors(a, raid.Write, 0, 4),
		sectors(a, raid.Write, 0, 3),
		sectors(a, raid.Write, 1, 3),
		sectors(a, raid.Write, 1, 2),
		sectors(a, raid.Write, 0, 8),
		sectors(a, raid.Write, 0, 6),
		sectors(a, raid.Write, 2, 6),
		sectors(a, raid.Write, 2, 4),
	}
}()

// MethodJobs exercises every write method on a seven data disk array. Each
// request runs fault free, then with a request unit, an off-request unit and
// the parity disk faulty in turn.
var MethodJobs = func() []Job {
	type req struct {
		offset, length uint64
		faults         []int
	}

	reqs := []req{
		{12, 4, []int{raid.FaultFree, 3, 2, 7}},
		{12, 3, []int{raid.FaultFree, 3, 2, 7}},
		{13, 2, []int{raid.FaultFree, 3, 2, 7}},
		{12, 12, []int{raid.FaultFree, 3, 2, 7}},
		{12, 11, []int{raid.FaultFree, 3, 5, 2, 7}},
		{15, 8, []int{raid.FaultFree, 4, 5, 2, 7}},
	}

	var jobs []Job
	for _, r := range reqs {
		for _, f := range r.faults {
			jobs = append(jobs, sectors(array(raid.RAID4, 7, 4*sector, f), raid.Write, r.offset, r.length))
		}
	}
	return jobs
}()

var FullStripeJobs = []Job{
	sectors(array(raid.RAID4, 7, 4*sector, raid.FaultFree), raid.Write, 0, 7*4),
}

// unalignedSpan starts one sector before the last unit of a stripe and runs
// two full stripes and three units past it.
func unalignedSpan(a raid.DiskArray, nature raid.Nature) Job {
	su := uint64(a.StripingUnit) / sector
	stripe := uint64(a.DataDisks) * su

	return sectors(a, nature, stripe-su-1, su+1+2*stripe+3*su)
}

var FreeJobs = []Job{
	unalignedSpan(array(raid.RAID5, 4, 4*sector, raid.FaultFree), raid.Write),
}

var DemoJobs = []Job{
	unalignedSpan(array(raid.RAID4, 6, 4*sector, raid.FaultFree), raid.Write),
	unalignedSpan(array(raid.RAID4, 6, 4*sector, 4), raid.Write),
	unalignedSpan(array(raid.RAID4, 6, 4*sector, raid.FaultFree), raid.Read),
	unalignedSpan(array(raid.RAID5, 6, 4*sector, raid.FaultFree), raid.Read),
}

// CutoffJobs produces writes from stripe offset 0, each one sector longer
// than the last, from a single sector up to a whole stripe.
func CutoffJobs() []Job {
	a := array(raid.RAID4, 4, 4*sector, raid.FaultFree)

	count := uint64(a.DataDisks) * uint64(a.StripingUnit) / sector
	jobs := make([]Job, 0, count)
	for n := uint64(1); n <= count; n++ {
		jobs = append(jobs, sectors(a, raid.Write, 0, n))
	}
	return jobs
}

// MergeJobs produces four requests, each expanding into a pair of rmw stripe
// requests: every combination of the shortest and the longest rmw request
// either side of a stripe boundary. orEqualTo sizes the longest request for a
// cut-off that also accepts equality.
func MergeJobs(orEqualTo bool) []Job {
	a := array(raid.RAID5, 7, 4*sector, raid.FaultFree)

	unit := uint64(a.StripingUnit) / sector
	cutoff := unit * uint64(a.DataDisks-1)

	// The longest rmw stripe request, in sectors.
	var longest uint64
	if orEqualTo {
		longest = (cutoff - cutoff&1) / 2
	} else {
		longest = (cutoff - 2 + cutoff&1) / 2
	}

	stripe := unit * uint64(a.DataDisks)

	return []Job{
		sectors(a, raid.Write, stripe-1, 2),
		sectors(a, raid.Write, stripe-1, 1+longest),
		sectors(a, raid.Write, stripe-longest, longest+1),
		sectors(a, raid.Write, stripe-longest, 2*longest),
	}
}

// RotationJobs produces a fault-free job followed by one job per faulty disk.
// Every request covers as many stripes as the array has disks, so each disk
// holds parity once.
func RotationJobs() []Job {
	a := array(raid.RAID5, 4, 4*sector, raid.FaultFree)

	length := uint64(a.DataDisks) * uint64(a.Disks()) * uint64(a.StripingUnit) / sector

	jobs := []Job{sectors(a, raid.Write, 0, length)}
	for disk := 0; disk <= int(a.DataDisks); disk++ {
		a.FaultyDisk = disk
		jobs = append(jobs, sectors(a, raid.Write, 0, length))
	}
	return jobs
}
