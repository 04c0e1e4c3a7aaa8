// Package filter builds classic BPF programs for pre-dispatch frame
// filtering and runs them on the pure-Go interpreter.
package filter

import (
	"fmt"

	"golang.org/x/net/bpf"
)

const snapLen = 65535

// Filter accepts or rejects Ethernet frames.
type Filter struct {
	vm *bpf.VM
}

// Compile builds a filter matching IPv4 frames of the given transport
// protocol ("tcp", "udp", "icmp" or "" for any) and, for tcp/udp, an
// optional source-or-destination port. Zero port means any.
func Compile(proto string, port uint16) (*Filter, error) {
	var ipProto uint32
	switch proto {
	case "":
		if port != 0 {
			return nil, fmt.Errorf("filter: port match requires tcp or udp")
		}
	case "tcp":
		ipProto = 6
	case "udp":
		ipProto = 17
	case "icmp":
		if port != 0 {
			return nil, fmt.Errorf("filter: port match requires tcp or udp")
		}
		ipProto = 1
	default:
		return nil, fmt.Errorf("filter: unknown protocol %q", proto)
	}

	var ins []bpf.Instruction
	switch {
	case proto == "":
		ins = []bpf.Instruction{
			bpf.RetConstant{Val: snapLen},
		}
	case port == 0:
		ins = []bpf.Instruction{
			bpf.LoadAbsolute{Off: 12, Size: 2},
			bpf.JumpIf{Cond: bpf.JumpEqual, Val: 0x0800, SkipFalse: 3},
			bpf.LoadAbsolute{Off: 23, Size: 1},
			bpf.JumpIf{Cond: bpf.JumpEqual, Val: ipProto, SkipFalse: 1},
			bpf.RetConstant{Val: snapLen},
			bpf.RetConstant{Val: 0},
		}
	default:
		ins = []bpf.Instruction{
			bpf.LoadAbsolute{Off: 12, Size: 2},
			bpf.JumpIf{Cond: bpf.JumpEqual, Val: 0x0800, SkipFalse: 8},
			bpf.LoadAbsolute{Off: 23, Size: 1},
			bpf.JumpIf{Cond: bpf.JumpEqual, Val: ipProto, SkipFalse: 6},
			bpf.LoadMemShift{Off: 14},
			bpf.LoadIndirect{Off: 14, Size: 2},
			bpf.JumpIf{Cond: bpf.JumpEqual, Val: uint32(port), SkipTrue: 2},
			bpf.LoadIndirect{Off: 16, Size: 2},
			bpf.JumpIf{Cond: bpf.JumpEqual, Val: uint32(port), SkipFalse: 1},
			bpf.RetConstant{Val: snapLen},
			bpf.RetConstant{Val: 0},
		}
	}

	vm, err := bpf.NewVM(ins)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	return &Filter{vm: vm}, nil
}

// Match reports whether the frame passes the filter.
func (f *Filter) Match(frame []byte) bool {
	n, err := f.vm.Run(frame)
	return err == nil && n > 0
}
