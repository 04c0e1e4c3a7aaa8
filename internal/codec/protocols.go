package codec

// Protocol ids share one 16-bit space: values >= EthertypeMinimum are
// ethertypes, values below 256 are IP protocol numbers. The sentinel
// ProtoFinishedDecode means no further layers follow.
const (
	ProtoFinishedDecode uint16 = 0xFFFF

	EthertypeMinimum uint16 = 0x0600

	EthertypeIPv4          uint16 = 0x0800
	EthertypeARP           uint16 = 0x0806
	EthertypeVLAN          uint16 = 0x8100
	EthertypeQinQ          uint16 = 0x88A8
	EthertypeIPv6          uint16 = 0x86DD
	EthertypeMPLSUnicast   uint16 = 0x8847
	EthertypeMPLSMulticast uint16 = 0x8848
)

// IP protocol numbers (IANA).
const (
	IPProtoICMPv4   uint8 = 1
	IPProtoIPIP     uint8 = 4
	IPProtoTCP      uint8 = 6
	IPProtoUDP      uint8 = 17
	IPProtoIPv6     uint8 = 41
	IPProtoRouting  uint8 = 43
	IPProtoFragment uint8 = 44
	IPProtoICMPv6   uint8 = 58
	IPProtoNoNext   uint8 = 59
	IPProtoDstOpts  uint8 = 60
	IPProtoHopOpts  uint8 = 0
)
