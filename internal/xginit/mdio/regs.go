// Package mdio drives the memory-mapped MDIO peripheral that configures
// Ethernet PHY devices over the 2-wire serial management bus. Every PHY
// register access is two sequential bus transactions: an address phase that
// latches the target register, then a data phase that moves the 16-bit value.
package mdio

// MDIO peripheral register offsets.
const (
	regAddress1 = 0x00 // opcode, port address, device address
	regAddress2 = 0x04 // 16-bit target register address
	regWriteBuf = 0x08 // 16-bit write value
	regReadBuf  = 0x0c // 16-bit read result
	regCtrl     = 0x10 // control/status
)

// Control register bits.
const (
	ctrlEnable  = 0x8 // enables the MDIO peripheral
	ctrlReqBusy = 0x1 // set to start a request; stays set while busy
)

// Address1 opcodes.
const (
	opSetAddress = 0 // send 16-bit register address
	opWrite      = 1 // send 16-bit write value
	opRead       = 3 // receive 16-bit read value
)

// Address1 field packing.
const (
	opMask    = 0x3
	opShift   = 10
	portMask  = 0x1f
	portShift = 5
	devMask   = 0x1f
	devShift  = 0
)

// packAddress1 bit-packs an opcode and the 5-bit port and device addresses
// into the ADDRESS1 register layout.
func packAddress1(op, port, device uint8) uint32 {
	return uint32(op&opMask)<<opShift |
		uint32(port&portMask)<<portShift |
		uint32(device&devMask)<<devShift
}
