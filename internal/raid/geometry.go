// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package raid

import (
	"fmt"
	"strings"
)

// SectorSize is the addressing granularity of every offset and length
// handled by the engine.
const SectorSize = 512

// FaultFree is the FaultyDisk value of an array with no faulty disk.
const FaultFree = -1

type Level int

const (
	RAID4 Level = iota
	RAID5
)

func (l Level) String() string {
	switch l {
	case RAID4:
		return "RAID4"
	case RAID5:
		return "RAID5"
	default:
		return "UNKNOWN"
	}
}

func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(s) {
	case "RAID4", "4":
		return RAID4, nil
	case "RAID5", "5":
		return RAID5, nil
	}
	return 0, fmt.Errorf("%w: unknown RAID level %q", ErrInvalidGeometry, s)
}

// DiskArray describes a single-parity array. Disks are numbered 0..DataDisks,
// so an array always has DataDisks+1 physical disks.
type DiskArray struct {
	Level        Level
	DataDisks    uint32
	StripingUnit uint32
	// FaultyDisk is the physical number of the failed disk, or FaultFree.
	FaultyDisk int
}

func (a DiskArray) Validate() error {
	if a.Level != RAID4 && a.Level != RAID5 {
		return fmt.Errorf("%w: unsupported level %d", ErrInvalidGeometry, int(a.Level))
	}
	if a.DataDisks == 0 {
		return fmt.Errorf("%w: at least one data disk is required", ErrInvalidGeometry)
	}
	if a.StripingUnit == 0 || a.StripingUnit%SectorSize != 0 {
		return fmt.Errorf("%w: striping unit %d is not a positive multiple of %d",
			ErrInvalidGeometry, a.StripingUnit, SectorSize)
	}
	if a.FaultyDisk < FaultFree || a.FaultyDisk > int(a.DataDisks) {
		return fmt.Errorf("%w: faulty disk %d out of range [0, %d]",
			ErrInvalidGeometry, a.FaultyDisk, a.DataDisks)
	}
	return nil
}

// Disks returns the number of physical disks, parity included.
func (a DiskArray) Disks() uint32 {
	return a.DataDisks + 1
}

// StripeLen is the logical length of a stripe, parity excluded.
func (a DiskArray) StripeLen() uint64 {
	return uint64(a.DataDisks) * uint64(a.StripingUnit)
}

func (a DiskArray) Faulty() bool {
	return a.FaultyDisk != FaultFree
}

// UnitForDisk maps a physical disk to the logical unit it holds in the given
// stripe. RAID5 assumes left-symmetric placement.
func (a DiskArray) UnitForDisk(disk uint32, stripe uint64) uint32 {
	if a.Level == RAID4 {
		return disk
	}
	n := uint64(a.Disks())
	return uint32((uint64(disk) + stripe%n) % n)
}

// DiskForUnit is the inverse of UnitForDisk.
func (a DiskArray) DiskForUnit(unit uint32, stripe uint64) uint32 {
	if a.Level == RAID4 {
		return unit
	}
	n := uint64(a.Disks())
	return uint32((uint64(unit) + n - stripe%n) % n)
}

// ParityDisk returns the physical disk holding parity for the stripe.
func (a DiskArray) ParityDisk(stripe uint64) uint32 {
	return a.DiskForUnit(a.DataDisks, stripe)
}

// Rotation is the number of disk positions the logical units of a stripe are
// shifted by.
func (a DiskArray) Rotation(stripe uint64) uint32 {
	if a.Level == RAID4 {
		return 0
	}
	return uint32(stripe % uint64(a.Disks()))
}
