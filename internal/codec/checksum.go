package codec

import "net/netip"

// InChecksum computes the ones-complement internet checksum over b,
// folded to 16 bits. A trailing odd byte is padded with zero.
func InChecksum(b []byte) uint16 {
	return foldChecksum(sumBytes(0, b))
}

// PseudoChecksum computes the transport checksum over the IP
// pseudo-header (from the accessor) plus the transport bytes. proto is
// the IP protocol number of the transport layer.
func PseudoChecksum(api *IPAPI, proto uint8, transport []byte) uint16 {
	var sum uint32
	sum = sumAddr(sum, api.Src())
	sum = sumAddr(sum, api.Dst())
	sum += uint32(proto)
	sum += uint32(len(transport))
	sum = sumBytes(sum, transport)
	return foldChecksum(sum)
}

func sumAddr(sum uint32, addr netip.Addr) uint32 {
	if addr.Is4() {
		a := addr.As4()
		return sumBytes(sum, a[:])
	}
	a := addr.As16()
	return sumBytes(sum, a[:])
}

func sumBytes(sum uint32, b []byte) uint32 {
	n := len(b)
	for i := 0; i+1 < n; i += 2 {
		sum += uint32(b[i])<<8 | uint32(b[i+1])
	}
	if n%2 == 1 {
		sum += uint32(b[n-1]) << 8
	}
	return sum
}

func foldChecksum(sum uint32) uint16 {
	for sum > 0xFFFF {
		sum = (sum & 0xFFFF) + (sum >> 16)
	}
	return ^uint16(sum)
}
